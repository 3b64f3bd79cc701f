package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "clave-de-prueba"

func firmarToken(t *testing.T, rol string, ttl time.Duration) string {
	t.Helper()
	claims := JWTClaims{
		UserID:   "8b7f4a51-0000-0000-0000-000000000001",
		Username: "mrodriguez",
		Rol:      rol,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func rutaProtegida(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grupo := r.Group("/", JWTAuth(testSecret))
	if len(roles) > 0 {
		grupo.Use(RequireRole(roles...))
	}
	grupo.GET("/recurso", func(c *gin.Context) {
		claims := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"usuario": claims.Username})
	})
	return r
}

func hacerRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthSinToken(t *testing.T) {
	w := hacerRequest(rutaProtegida(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthTokenValido(t *testing.T) {
	token := firmarToken(t, "operador", time.Hour)
	w := hacerRequest(rutaProtegida(), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mrodriguez")
}

func TestJWTAuthTokenExpirado(t *testing.T) {
	token := firmarToken(t, "operador", -time.Hour)
	w := hacerRequest(rutaProtegida(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthFirmaAjena(t *testing.T) {
	claims := jwt.MapClaims{"user_id": "x", "rol": "admin", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("otro-secreto"))
	require.NoError(t, err)

	w := hacerRequest(rutaProtegida(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	r := rutaProtegida("admin", "operador")

	t.Run("rol permitido", func(t *testing.T) {
		w := hacerRequest(r, firmarToken(t, "operador", time.Hour))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rol de solo lectura rechazado", func(t *testing.T) {
		w := hacerRequest(r, firmarToken(t, "consulta", time.Hour))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
