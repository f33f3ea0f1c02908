package service

import "errors"

var (
	// ErrPaymentNotFound is returned when no payment matches the reference or ID.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrOrderNotFound is returned when the order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrProductNotFound is returned when a product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrCategoryNotFound is returned when a category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrStateNotFound is returned when a state does not exist or is inactive.
	ErrStateNotFound = errors.New("state not found")

	// ErrLocationNotFound is returned when a location does not exist or is inactive.
	ErrLocationNotFound = errors.New("location not found")

	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrForbidden is returned when the caller may not act on the resource.
	ErrForbidden = errors.New("you do not have permission to perform this action")

	// ErrInvalidSignature is returned when a webhook signature does not verify.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrMalformedPayload is returned when a webhook body is not a JSON object.
	ErrMalformedPayload = errors.New("malformed webhook payload")

	// ErrOrderNotPayable is returned when checkout is started for an order that is no longer pending.
	ErrOrderNotPayable = errors.New("order is not awaiting payment")

	// ErrPaymentInProgress is returned when another checkout for the same order is being initiated.
	ErrPaymentInProgress = errors.New("a checkout for this order is already in progress")

	// ErrInvalidOrderID is returned when order ID is missing.
	ErrInvalidOrderID = errors.New("invalid order id")

	// ErrInvalidTxRef is returned when tx_ref is empty.
	ErrInvalidTxRef = errors.New("tx_ref is required")

	// ErrInvalidCustomer is returned when customer email or name is missing.
	ErrInvalidCustomer = errors.New("customer email and name are required")

	// ErrEmptyOrder is returned when an order has no items.
	ErrEmptyOrder = errors.New("order must contain at least one item")

	// ErrInvalidQuantity is returned when an item quantity is not positive.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInvalidOrderStatus is returned for an unknown order status.
	ErrInvalidOrderStatus = errors.New("invalid order status")

	// ErrInvalidProduct is returned when a product name or price is invalid.
	ErrInvalidProduct = errors.New("product name is required and price must not be negative")

	// ErrInvalidCategory is returned when a category name is blank or a
	// product names a category that does not exist.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidLocation is returned when an order names an unknown or
	// inactive delivery location, or a state or location is malformed.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrLocationExists is returned when a state or location name is taken.
	ErrLocationExists = errors.New("state or location already exists")

	// ErrCategoryExists is returned when a category name is taken.
	ErrCategoryExists = errors.New("category already exists")

	// ErrProductInUse is returned when deleting a product that orders refer to.
	ErrProductInUse = errors.New("product is referenced by existing orders")

	// ErrInvalidCredentials is returned when login fails.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrWeakPassword is returned when a password is too short.
	ErrWeakPassword = errors.New("password must be at least 8 characters")

	// ErrInvalidToken is returned when a bearer token cannot be verified.
	ErrInvalidToken = errors.New("invalid or expired token")
)
