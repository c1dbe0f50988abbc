package common

// AuthorizationHeaderName carries the bearer access token on API requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the expected authorization scheme prefix.
const BearerScheme = "Bearer"

// UserIDLocalKey is the fiber.Ctx locals key holding the authenticated user id.
const UserIDLocalKey = "user_id"
