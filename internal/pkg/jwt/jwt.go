package jwt

import (
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeAccess = "access"

// AccessClaims is what an access token says about its bearer.
type AccessClaims struct {
	EmployeeID string
	CompanyID  string
	Role       user.Role
	FirstLogin bool
}

type Service interface {
	GenerateAccessToken(claims AccessClaims) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	// ActorFromClaims rebuilds the authenticated actor from verified token claims.
	ActorFromClaims(claims map[string]interface{}) (user.Actor, error)
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(claims AccessClaims) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": claims.EmployeeID,
		"company_id":  claims.CompanyID,
		"role":        string(claims.Role),
		"first_login": claims.FirstLogin,
		"type":        tokenTypeAccess,
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) ActorFromClaims(claims map[string]interface{}) (user.Actor, error) {
	if tokenType, _ := claims["type"].(string); tokenType != tokenTypeAccess {
		return user.Actor{}, jwt.ErrInvalidJWT()
	}

	employeeID, _ := claims["employee_id"].(string)
	companyID, _ := claims["company_id"].(string)
	role, _ := claims["role"].(string)
	if employeeID == "" || companyID == "" {
		return user.Actor{}, jwt.ErrInvalidJWT()
	}
	if !user.Role(role).IsValid() {
		return user.Actor{}, user.ErrInvalidRole
	}

	return user.Actor{
		EmployeeID: employeeID,
		CompanyID:  companyID,
		Role:       user.Role(role),
	}, nil
}
