// Package docs registers the OpenAPI document served under /swagger/. It is
// maintained by hand alongside the handler annotations and lists paths only.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/carts": {
            "get": {"tags": ["Carts"], "summary": "Get the current cart", "produces": ["application/json"], "responses": {"200": {"description": "Current cart"}, "500": {"description": "Internal server error"}}},
            "delete": {"tags": ["Carts"], "summary": "Empty the cart", "produces": ["application/json"], "responses": {"200": {"description": "Empty cart"}, "500": {"description": "Internal server error"}}}
        },
        "/carts/items": {
            "post": {"tags": ["Carts"], "summary": "Add an item to the cart", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "Updated cart"}, "400": {"description": "Validation error"}, "404": {"description": "Product not found"}}}
        },
        "/carts/items/{id}": {
            "put": {"tags": ["Carts"], "summary": "Change a cart line quantity", "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Updated cart"}, "404": {"description": "Cart line not found"}}},
            "delete": {"tags": ["Carts"], "summary": "Remove a cart line", "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Updated cart"}}}
        },
        "/carts/merge": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Carts"], "summary": "Merge the guest cart into the signed-in user's cart", "responses": {"200": {"description": "Merge result with the refreshed cart"}, "401": {"description": "Authentication required"}}}
        },
        "/categories": {
            "get": {"tags": ["Products"], "summary": "List categories", "responses": {"200": {"description": "Categories"}}}
        },
        "/categories/{slug}/subcategories": {
            "get": {"tags": ["Products"], "summary": "List subcategories", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "Active subcategories by name"}, "500": {"description": "Internal server error"}}}
        },
        "/orders": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Orders"], "summary": "List the user's orders", "parameters": [{"type": "string", "name": "status", "in": "query"}, {"type": "string", "name": "search", "in": "query"}, {"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "pageSize", "in": "query"}], "responses": {"200": {"description": "Orders, newest first"}, "400": {"description": "Unknown status"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Orders"], "summary": "Place an order from the current cart", "responses": {"201": {"description": "Order created"}, "400": {"description": "Validation error or empty cart"}, "402": {"description": "Payment declined"}, "502": {"description": "Payment provider unavailable"}}}
        },
        "/orders/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Orders"], "summary": "Get an order by ID", "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Order"}, "404": {"description": "Order not found"}}}
        },
        "/orders/{id}/cancel": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Orders"], "summary": "Cancel an order", "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Cancelled order"}, "409": {"description": "Order can no longer be cancelled"}}}
        },
        "/orders/{id}/status": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["Orders"], "summary": "Update order status", "description": "Admin only. A refund also marks the payment refunded.", "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Updated order"}, "401": {"description": "Authentication required"}, "403": {"description": "Admin role required"}, "409": {"description": "Transition not allowed"}}}
        },
        "/payments/webhook": {
            "post": {"tags": ["Payments"], "summary": "Stripe webhook", "parameters": [{"type": "string", "name": "Stripe-Signature", "in": "header", "required": true}], "responses": {"200": {"description": "Event accepted"}, "400": {"description": "Missing or invalid signature"}}}
        },
        "/products": {
            "get": {"tags": ["Products"], "summary": "List products", "parameters": [{"type": "string", "name": "category_id", "in": "query"}, {"type": "string", "name": "subcategory_id", "in": "query"}, {"type": "string", "name": "category", "in": "query"}, {"type": "string", "name": "subcategory", "in": "query"}, {"type": "string", "name": "search", "in": "query"}, {"type": "string", "name": "min_price", "in": "query"}, {"type": "string", "name": "max_price", "in": "query"}, {"type": "boolean", "name": "featured", "in": "query"}, {"type": "boolean", "name": "bestseller", "in": "query"}, {"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "pageSize", "in": "query"}], "responses": {"200": {"description": "Products"}, "400": {"description": "Invalid filter"}}}
        },
        "/products/{id}": {
            "get": {"tags": ["Products"], "summary": "Get a product by ID", "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Product"}, "404": {"description": "Product not found"}}}
        },
        "/products/{id}/reviews": {
            "get": {"tags": ["Reviews"], "summary": "List reviews of a product", "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Reviews"}}}
        },
        "/reviews": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Reviews"], "summary": "Review a product", "responses": {"201": {"description": "Created review"}, "409": {"description": "Product already reviewed"}}}
        },
        "/reviews/{id}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["Reviews"], "summary": "Edit a review", "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Updated review"}, "404": {"description": "Review not found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Reviews"], "summary": "Delete a review", "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Review not found"}}}
        },
        "/reviews/{id}/helpful": {
            "post": {"tags": ["Reviews"], "summary": "Vote a review as helpful", "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "429": {"description": "Too many requests"}}}
        },
        "/users/login": {
            "post": {"tags": ["Users"], "summary": "Log in", "responses": {"200": {"description": "Token and merged cart"}, "401": {"description": "Invalid email or password"}, "429": {"description": "Too many login attempts"}}}
        },
        "/users/profile": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Users"], "summary": "Get the signed-in user's profile", "responses": {"200": {"description": "User"}, "401": {"description": "Authentication required"}}}
        },
        "/users/register": {
            "post": {"tags": ["Users"], "summary": "Register a new user", "responses": {"201": {"description": "Created user"}, "409": {"description": "Email already registered"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Snap-n-Shop Central API",
	Description:      "Storefront API: catalog, guest and user carts, checkout, orders and reviews.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
