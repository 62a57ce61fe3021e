package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gdeapp/gde-backend/internal/application/auth"
	"github.com/gdeapp/gde-backend/internal/application/guia"
	appkardex "github.com/gdeapp/gde-backend/internal/application/kardex"
	"github.com/gdeapp/gde-backend/internal/application/product"
	"github.com/gdeapp/gde-backend/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC  *appkardex.LedgerUseCase
	ProductUC *product.ProductUseCase
	GuiaUC    *guia.GuiaUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Solo contable (o admin) puede escribir movimientos y stock.
	writer := RequireRole(entity.RoleContable)

	// Kardex (protegido)
	kardexGroup := protected.Group("/kardex")
	kardexHandler := NewKardexHandler(deps.LedgerUC)
	kardexGroup.Post("/", writer, kardexHandler.CreateEntry)
	kardexGroup.Get("/summary", kardexHandler.Summary)
	kardexGroup.Get("/product/:id", kardexHandler.ListByProduct)
	kardexGroup.Get("/product/:id/report", kardexHandler.Report)
	kardexGroup.Post("/adjust-stock", writer, kardexHandler.AdjustStock)
	kardexGroup.Post("/transfer-stock", writer, kardexHandler.TransferStock)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", writer, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", writer, productHandler.Update)
	products.Patch("/:id/stock", writer, productHandler.UpdateStock)

	// Guías de despacho (protegido)
	guias := protected.Group("/guias")
	guiaHandler := NewGuiaHandler(deps.GuiaUC)
	guias.Post("/", writer, guiaHandler.Create)
	guias.Get("/", guiaHandler.List)
	guias.Get("/:id", guiaHandler.GetByID)
	guias.Post("/:id/items", writer, guiaHandler.AddItem)
	guias.Delete("/:id/items/:itemId", writer, guiaHandler.RemoveItem)
}
