package pricing

import "github.com/shopspring/decimal"

// DefaultCurrency moneda de todos los planes.
const DefaultCurrency = "usd"

// Plan un paquete de análisis de reseñas a la venta.
type Plan struct {
	Key         string
	Name        string
	Price       decimal.Decimal
	Description string
}

// Plan por defecto cuando la clave solicitada no existe.
const DefaultPlanKey = "basic"

var catalog = []Plan{
	{Key: "basic", Name: "Basic Analysis", Price: decimal.RequireFromString("29.99"), Description: "Single business review analysis with AI-powered insights"},
	{Key: "pro", Name: "Pro Analysis", Price: decimal.RequireFromString("79.99"), Description: "Up to 5 business analyses with advanced AI insights"},
	{Key: "enterprise", Name: "Enterprise Analysis", Price: decimal.RequireFromString("199.99"), Description: "Unlimited business analyses with premium AI insights"},
}

// Plans devuelve el catálogo en orden de precio.
func Plans() []Plan {
	out := make([]Plan, len(catalog))
	copy(out, catalog)
	return out
}

// LookupPlan devuelve el plan de la clave; si no existe, el plan básico.
func LookupPlan(key string) Plan {
	for _, p := range catalog {
		if p.Key == key {
			return p
		}
	}
	return catalog[0]
}
