package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// BearerScheme prefixes the token in HTTP Authorization headers.
const BearerScheme = "Bearer"
