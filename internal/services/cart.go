package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/venkatakausik18/snap-n-shop-central/internal/api/middleware"
	appErrors "github.com/venkatakausik18/snap-n-shop-central/internal/errors"
	"github.com/venkatakausik18/snap-n-shop-central/internal/metrics"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	repository "github.com/venkatakausik18/snap-n-shop-central/internal/repositories"
)

// GuestSession is the part of the session resolver the merge needs.
type GuestSession interface {
	SessionID(ctx context.Context) (string, bool, error)
	Clear(ctx context.Context) error
}

// CartService reads and mutates the line items owned by a user or a guest
// session. Every mutation returns the owner's freshly read cart.
type CartService interface {
	GetCart(ctx context.Context, owner models.Owner) (*models.Cart, error)
	AddItem(ctx context.Context, owner models.Owner, line models.NewCartLine) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, owner models.Owner, lineID uuid.UUID, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, owner models.Owner, lineID uuid.UUID) (*models.Cart, error)
	Clear(ctx context.Context, owner models.Owner) error
	MergeGuestCart(ctx context.Context, session GuestSession, userID uuid.UUID) (*models.MergeResult, error)
}

type cartService struct {
	repo repository.CartRepository
}

func NewCartService(repo repository.CartRepository) CartService {
	return &cartService{repo: repo}
}

func validOwner(owner models.Owner) error {
	if !owner.Valid() {
		return appErrors.ValidationError("Cart owner must be either a user or a guest session")
	}

	return nil
}

func (s *cartService) GetCart(ctx context.Context, owner models.Owner) (*models.Cart, error) {
	if err := validOwner(owner); err != nil {
		return nil, err
	}

	lines, err := s.repo.ListLines(ctx, owner)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	return models.NewCart(lines), nil
}

// AddItem clamps a non-positive quantity to 1 and folds the request into an
// existing line with the same product and discriminators.
func (s *cartService) AddItem(ctx context.Context, owner models.Owner, line models.NewCartLine) (*models.Cart, error) {
	if err := validOwner(owner); err != nil {
		return nil, err
	}

	if line.ProductID == uuid.Nil {
		return nil, appErrors.ValidationError("Product is required")
	}

	if line.Quantity <= 0 {
		line.Quantity = 1
	}

	lines, err := s.repo.ListLines(ctx, owner)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	for _, existing := range lines {
		if existing.Matches(line.ProductID, line.Discriminators) {
			if err := s.repo.UpdateQuantity(ctx, owner, existing.ID, existing.Quantity+line.Quantity); err != nil {
				return nil, appErrors.DatabaseError("Failed to update cart item").WithError(err)
			}

			return s.GetCart(ctx, owner)
		}
	}

	newLine := &models.CartLine{
		ID:             uuid.New(),
		ProductID:      line.ProductID,
		Quantity:       line.Quantity,
		UnitPrice:      line.UnitPrice,
		Discriminators: line.Discriminators,
	}

	if err := s.repo.InsertLine(ctx, owner, newLine); err != nil {
		return nil, appErrors.DatabaseError("Failed to add item to cart").WithError(err)
	}

	return s.GetCart(ctx, owner)
}

// UpdateQuantity removes the line when quantity is zero or negative.
func (s *cartService) UpdateQuantity(ctx context.Context, owner models.Owner, lineID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, owner, lineID)
	}

	if err := validOwner(owner); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateQuantity(ctx, owner, lineID, quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Cart item not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to update cart item").WithError(err)
	}

	return s.GetCart(ctx, owner)
}

func (s *cartService) RemoveItem(ctx context.Context, owner models.Owner, lineID uuid.UUID) (*models.Cart, error) {
	if err := validOwner(owner); err != nil {
		return nil, err
	}

	if err := s.repo.DeleteLine(ctx, owner, lineID); err != nil {
		return nil, appErrors.DatabaseError("Failed to remove cart item").WithError(err)
	}

	return s.GetCart(ctx, owner)
}

func (s *cartService) Clear(ctx context.Context, owner models.Owner) error {
	if err := validOwner(owner); err != nil {
		return err
	}

	if err := s.repo.DeleteByOwner(ctx, owner); err != nil {
		return appErrors.DatabaseError("Failed to clear cart").WithError(err)
	}

	return nil
}

// MergeGuestCart moves the guest session's lines onto the user and forgets the
// session id. It returns nil when there was nothing to merge. Lines that
// duplicate an existing user line are moved as-is and only counted.
func (s *cartService) MergeGuestCart(ctx context.Context, session GuestSession, userID uuid.UUID) (*models.MergeResult, error) {
	logger := middleware.LoggerFromContext(ctx)

	sessionID, ok, err := session.SessionID(ctx)
	if err != nil {
		return nil, appErrors.InternalError("Failed to read guest session").WithError(err)
	}

	if !ok {
		return nil, nil
	}

	guest := models.GuestOwner(sessionID)
	user := models.UserOwner(userID)

	guestLines, err := s.repo.ListLines(ctx, guest)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch guest cart").WithError(err)
	}

	if len(guestLines) == 0 {
		return nil, nil
	}

	userLines, err := s.repo.ListLines(ctx, user)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	collisions := countCollisions(guestLines, userLines)

	moved, err := s.repo.ReassignSessionLines(ctx, sessionID, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to merge guest cart").WithError(err)
	}

	if err := session.Clear(ctx); err != nil {
		logger.Warn("Failed to clear guest session after merge", slog.Any("error", err))
	}

	if collisions > 0 {
		logger.Warn("Guest cart merge produced duplicate lines",
			slog.String("userId", userID.String()), slog.Int("collisions", collisions))
	}

	metrics.RecordCartMerge(collisions)

	lines, err := s.repo.ListLines(ctx, user)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	logger.Info("Guest cart merged", slog.String("userId", userID.String()), slog.Int64("moved", moved))

	return &models.MergeResult{
		Merged:     int(moved),
		Collisions: collisions,
		Cart:       models.NewCart(lines),
	}, nil
}

func countCollisions(guestLines, userLines []models.CartLine) int {
	collisions := 0

	for _, g := range guestLines {
		for _, u := range userLines {
			if u.Matches(g.ProductID, g.Discriminators) {
				collisions++

				break
			}
		}
	}

	return collisions
}
