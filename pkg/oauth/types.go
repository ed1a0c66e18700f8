// Package oauth provides shared authorization types and constants for the
// coffee shop API.
package oauth

// Permission constants granted through the token "permissions" claim.
// Each permission unlocks exactly one guarded route.
const (
	// PermissionGetDrinksDetail allows reading full drink recipes.
	PermissionGetDrinksDetail = "get:drinks-detail"

	// PermissionPostDrinks allows creating drinks.
	PermissionPostDrinks = "post:drinks"

	// PermissionPatchDrinks allows updating drinks.
	PermissionPatchDrinks = "patch:drinks"

	// PermissionDeleteDrinks allows deleting drinks.
	PermissionDeleteDrinks = "delete:drinks"
)

// Permissions returns every permission the API understands, in route order.
func Permissions() []string {
	return []string{
		PermissionGetDrinksDetail,
		PermissionPostDrinks,
		PermissionPatchDrinks,
		PermissionDeleteDrinks,
	}
}

// Token type constants as defined in RFC 6750.
const (
	// BearerToken is the Bearer authentication scheme.
	BearerToken = "Bearer"
)

// JWT claim names read by the token validator.
const (
	// ClaimPermissions carries the granted permission strings.
	ClaimPermissions = "permissions"

	// ClaimScope carries the space separated OAuth scopes.
	ClaimScope = "scope"
)

// HTTP header names.
const (
	// HeaderAuthorization is the Authorization HTTP header name.
	HeaderAuthorization = "Authorization"

	// HeaderWWWAuthenticate is the WWW-Authenticate HTTP header name.
	HeaderWWWAuthenticate = "WWW-Authenticate"

	// HeaderContentType is the Content-Type HTTP header name.
	HeaderContentType = "Content-Type"

	// HeaderRequestID is the header used to correlate a request across logs.
	HeaderRequestID = "X-Request-ID"
)

// Content type constants.
const (
	// ContentTypeJSON is the application/json content type.
	ContentTypeJSON = "application/json"
)
