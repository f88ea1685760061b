package auth // package auth implements issuing and decoding of bearer tokens

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// TokenTTL is the fixed lifetime of an access token.  Tokens are not
// refreshable; a client whose token has expired must log in again.
const TokenTTL = time.Hour

// ErrInvalidToken is returned by Decode for any token whose signature or
// structure cannot be verified.  Callers never see the parser's internal
// error variants.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the decoded fields of an access token: the subject user ID,
// the issued-at timestamp and the expiry timestamp, both in Unix seconds.
// A Claims value is produced only by Decode, so a non-nil *Claims always
// came from a correctly signed token.  Freshness is checked separately by
// IsValid.
type Claims struct {
    ID  string // subject user id
    Iat int64  // issued at (unix seconds)
    Exp int64  // expires at (unix seconds)
}

// Issue builds and signs an HS256 token for the given user ID.  The claims
// are {id, iat, exp} with exp fixed at one hour after issuance.
func Issue(userID string, secret string) (string, error) {
    now := time.Now().UTC()
    claims := jwt.MapClaims{
        "id":  userID,
        "iat": now.Unix(),
        "exp": now.Add(TokenTTL).Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return t.SignedString([]byte(secret))
}

// Decode verifies the signature and structure of a token and returns its
// claims.  Expiry is deliberately NOT checked here: Decode answers "was this
// token issued by us", IsValid answers "is it still fresh".  Any malformed,
// unsigned or tampered input yields ErrInvalidToken.
func Decode(token string, secret string) (*Claims, error) {
    parsed, err := jwt.Parse(token,
        func(t *jwt.Token) (interface{}, error) {
            if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                return nil, ErrInvalidToken
            }
            return []byte(secret), nil
        },
        jwt.WithoutClaimsValidation(),
    )
    if err != nil || !parsed.Valid {
        return nil, ErrInvalidToken
    }
    mc, ok := parsed.Claims.(jwt.MapClaims)
    if !ok {
        return nil, ErrInvalidToken
    }
    c := &Claims{}
    if v, ok := mc["id"].(string); ok {
        c.ID = v
    }
    // JSON numbers decode as float64.
    if v, ok := mc["iat"].(float64); ok {
        c.Iat = int64(v)
    }
    if v, ok := mc["exp"].(float64); ok {
        c.Exp = int64(v)
    }
    return c, nil
}

// IsValid reports whether decoded claims are semantically usable: all three
// fields present and the expiry strictly in the future.  It is a pure
// predicate with no side effects; signature validity is Decode's job.
func IsValid(c *Claims) bool {
    if c == nil {
        return false
    }
    if c.ID == "" || c.Iat == 0 || c.Exp == 0 {
        return false
    }
    return time.Now().UnixMilli() < c.Exp*1000
}
