package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/review-analyzer-api/pkg/config"
)

func load(values map[string]any) *config.Config {
	v := viper.New()
	for k, val := range values {
		v.Set(k, val)
	}
	return config.FromViper(v)
}

func TestFromViper_Defaults(t *testing.T) {
	cfg := load(nil)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 30, cfg.JWT.Expiration)
	assert.Equal(t, 30*time.Minute, cfg.JWT.TTL())
	assert.Equal(t, "access_token", cfg.Cookie.Name)
	assert.True(t, cfg.Cookie.Secure)
	assert.Equal(t, 10*time.Second, cfg.Stripe.Timeout)
	assert.Equal(t, "0.0.0.0:8000", cfg.HTTP.Addr())
}

func TestFromViper_EnteroComoString(t *testing.T) {
	cfg := load(map[string]any{"HTTP_PORT": "9090", "STRIPE_TIMEOUT_SECONDS": "3"})
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.Stripe.Timeout)
}

func TestDSN_EscapaPassword(t *testing.T) {
	cfg := load(map[string]any{"DB_PASSWORD": "p@ss:w/rd"})
	dsn := cfg.DB.ConnectionString()
	assert.True(t, strings.HasPrefix(dsn, "postgres://postgres:"))
	assert.NotContains(t, dsn, "p@ss:w/rd")

	cfg = load(map[string]any{"DATABASE_URL": "postgres://u:p@db:5432/x"})
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DB.ConnectionString())
}

func TestValidate_DesarrolloUsaPlaceholder(t *testing.T) {
	cfg := load(nil)
	used, err := cfg.Validate()
	require.NoError(t, err)
	assert.True(t, used)
	assert.Equal(t, config.PlaceholderJWTSecret, cfg.JWT.Secret)
}

func TestValidate_ProduccionRechazaSecretPorDefecto(t *testing.T) {
	base := map[string]any{
		"APP_ENV":               "production",
		"STRIPE_SECRET_KEY":     "sk_live_x",
		"STRIPE_WEBHOOK_SECRET": "whsec_x",
	}
	for _, secret := range []string{"", config.PlaceholderJWTSecret, "changeme", "corto"} {
		values := map[string]any{}
		for k, v := range base {
			values[k] = v
		}
		if secret != "" {
			values["JWT_SECRET"] = secret
		}
		_, err := load(values).Validate()
		assert.Error(t, err, "secret %q no debe aceptarse en producción", secret)
	}

	base["JWT_SECRET"] = strings.Repeat("s", 48)
	_, err := load(base).Validate()
	assert.NoError(t, err)
}

func TestValidate_ProduccionExigeStripe(t *testing.T) {
	cfg := load(map[string]any{
		"APP_ENV":    "production",
		"JWT_SECRET": strings.Repeat("s", 48),
	})
	_, err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRIPE_SECRET_KEY")
}
