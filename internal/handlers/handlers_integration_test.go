package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"brutarie/internal/cache"
	"brutarie/internal/handlers"
	"brutarie/internal/middleware"
	"brutarie/internal/models"
	"brutarie/internal/repositories"
	"brutarie/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv bundles the Fiber app with the collaborators tests reach into
// directly (capability grants, confirmation codes).
type testEnv struct {
	app      *fiber.App
	users    repositories.UserRepository
	caps     repositories.CapabilityRepository
	products repositories.ProductRepository
	catalog  repositories.CatalogRepository
}

// setupApp builds the full route surface over a fresh in-memory SQLite
// database, wired the same way as the server entrypoint.
func setupApp(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Bakery{},
		&models.Employee{},
		&models.Vehicle{},
		&models.Promotion{},
		&models.ContactMessage{},
		&models.Capability{},
		&models.UserCapability{},
	)
	assert.NoError(t, err)

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	promotionRepo := repositories.NewGORMPromotionRepository(db)
	catalogRepo := repositories.NewGORMCatalogRepository(db)
	contactRepo := repositories.NewGORMContactRepository(db)
	capabilityRepo := repositories.NewGORMCapabilityRepository(db)

	err = capabilityRepo.Seed([]models.Capability{
		{Codename: models.CapabilityViewOffer, Name: "Can view special offer"},
		{Codename: models.CapabilityAddProduct, Name: "Can add product"},
	})
	assert.NoError(t, err)

	authService := services.NewAuthService(userRepo, nil, "test_jwt_secret",
		"http://127.0.0.1:8080", "noreply@test.local")
	productService := services.NewProductService(productRepo, catalogRepo, cache.New(time.Minute))
	promotionService := services.NewPromotionService(promotionRepo, productRepo)
	catalogService := services.NewCatalogService(catalogRepo)
	contactService := services.NewContactService(contactRepo)
	offerService := services.NewOfferService(capabilityRepo)

	app := fiber.New()
	authRequired := middleware.AuthRequired(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService, offerService).RegisterRoutes(apiV1, authRequired)
	handlers.NewProductHandler(productService, offerService).RegisterRoutes(apiV1, authRequired)
	handlers.NewOfferHandler(offerService).RegisterRoutes(apiV1, authRequired, optionalAuth)
	handlers.NewContactHandler(contactService).RegisterRoutes(apiV1)
	handlers.NewCatalogHandler(catalogService, promotionService).RegisterRoutes(apiV1, authRequired)
	handlers.NewSitemapHandler(productService, catalogService, promotionService,
		"http://127.0.0.1:8080").RegisterRoutes(app)

	return &testEnv{
		app:      app,
		users:    userRepo,
		caps:     capabilityRepo,
		products: productRepo,
		catalog:  catalogRepo,
	}
}

// TestMain suppresses request logging for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	resp.Body.Close()
	if len(raw) > 0 && resp.Header.Get("Content-Type") != "" &&
		strings.Contains(resp.Header.Get("Content-Type"), "json") {
		assert.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func registerPayload(username, emailAddr string) map[string]any {
	return map[string]any{
		"username":         username,
		"email":            emailAddr,
		"password":         "password123",
		"confirm_password": "password123",
		"first_name":       "Ana",
		"last_name":        "Pop",
		"birth_date":       "1990-04-12",
		"phone_number":     "+40712345678",
		"sex":              "F",
		"country":          "Romania",
		"state":            "Cluj",
		"city":             "Cluj-Napoca",
		"address":          "Strada Painii 10",
	}
}

// registerAndLogin walks a user through registration, email confirmation and
// login, returning a bearer token and the user ID.
func registerAndLogin(t *testing.T, env *testEnv, username, emailAddr string) (token, userID string) {
	t.Helper()

	resp, _ := doJSON(t, env.app, http.MethodPost, "/api/v1/auth/register", "", registerPayload(username, emailAddr))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	user, err := env.users.GetByUsername(username)
	assert.NoError(t, err)
	assert.NotNil(t, user.ConfirmationCode)

	resp, _ = doJSON(t, env.app, http.MethodGet, "/api/v1/auth/confirm_email/"+*user.ConfirmationCode, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, env.app, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": username,
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ = body["token"].(string)
	assert.NotEmpty(t, token)
	return token, user.ID
}

func TestRegistrationConfirmationLoginFlow(t *testing.T) {
	env := setupApp(t)

	// Register
	resp, body := doJSON(t, env.app, http.MethodPost, "/api/v1/auth/register", "",
		registerPayload("ana.pop", "ana@example.com"))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Please confirm your email address to complete registration.", body["message"])

	// Unconfirmed accounts cannot log in.
	resp, body = doJSON(t, env.app, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "ana.pop",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Please confirm your email first.", body["message"])

	// Duplicate registration conflicts.
	resp, _ = doJSON(t, env.app, http.MethodPost, "/api/v1/auth/register", "",
		registerPayload("ana.pop", "other@example.com"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Confirm, then confirm again.
	user, err := env.users.GetByUsername("ana.pop")
	assert.NoError(t, err)
	code := *user.ConfirmationCode

	resp, body = doJSON(t, env.app, http.MethodGet, "/api/v1/auth/confirm_email/"+code, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Your email has been successfully confirmed!", body["message"])

	resp, body = doJSON(t, env.app, http.MethodGet, "/api/v1/auth/confirm_email/"+code, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Your email is already confirmed.", body["message"])

	// Garbage codes point back to registration.
	resp, _ = doJSON(t, env.app, http.MethodGet, "/api/v1/auth/confirm_email/garbage", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Now the login succeeds and the token opens the profile.
	resp, body = doJSON(t, env.app, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "ana.pop",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["token"].(string)

	resp, body = doJSON(t, env.app, http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	userData := body["user_data"].(map[string]any)
	assert.Equal(t, "ana.pop", userData["username"])
}

func TestBlockedAccountLogin(t *testing.T) {
	env := setupApp(t)
	_, userID := registerAndLogin(t, env, "blocked.user", "blocked@example.com")

	user, err := env.users.GetByID(userID)
	assert.NoError(t, err)
	user.Blocked = true
	assert.NoError(t, env.users.Update(user))

	resp, body := doJSON(t, env.app, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "blocked.user",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Your account has been blocked. Contact the administrator for more information.", body["message"])
}

func TestSpecialOfferWorkflow(t *testing.T) {
	env := setupApp(t)
	token, _ := registerAndLogin(t, env, "offer.user", "offer@example.com")

	// Guests get the 403 payload with the Guest identity.
	resp, body := doJSON(t, env.app, http.MethodGet, "/api/v1/offers/special", "", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Guest", body["username"])
	assert.Equal(t, "You are not authorized to view the special offer.", body["message"])

	// The banner endpoint requires a session.
	resp, _ = doJSON(t, env.app, http.MethodGet, "/api/v1/offers/banner", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = doJSON(t, env.app, http.MethodGet, "/api/v1/offers/banner", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "show_banner")

	// Before the claim the offer page is gated, with the real username.
	resp, body = doJSON(t, env.app, http.MethodGet, "/api/v1/offers/special", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "offer.user", body["username"])

	// Claim, twice; both succeed.
	for i := 0; i < 2; i++ {
		resp, body = doJSON(t, env.app, http.MethodPost, "/api/v1/offers/claim", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["success"])
	}

	resp, body = doJSON(t, env.app, http.MethodGet, "/api/v1/offers/special", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Congratulations! You have unlocked the special offer!", body["message"])

	// Logout revokes the grant; the offer page locks again.
	resp, _ = doJSON(t, env.app, http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, env.app, http.MethodGet, "/api/v1/offers/special", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestProductMutationsRequireCapability(t *testing.T) {
	env := setupApp(t)
	token, userID := registerAndLogin(t, env, "baker.user", "baker@example.com")

	resp, body := doJSON(t, env.app, http.MethodPost, "/api/v1/categories", token, map[string]any{
		"name": "Pastry",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	categoryID := body["id"].(string)

	product := map[string]any{
		"name":        "Croissant",
		"category_id": categoryID,
		"price":       12.5,
		"stock":       30,
		"calories":    350,
		"allergens":   "gluten,milk",
	}

	// No token: 401. Token without the capability: 403.
	resp, _ = doJSON(t, env.app, http.MethodPost, "/api/v1/products", "", product)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = doJSON(t, env.app, http.MethodPost, "/api/v1/products", token, product)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "You are not allowed to add products.", body["message"])

	// Grant add_product and retry.
	capability, err := env.caps.GetByCodename(models.CapabilityAddProduct)
	assert.NoError(t, err)
	assert.NoError(t, env.caps.Grant(userID, capability.ID))

	resp, body = doJSON(t, env.app, http.MethodPost, "/api/v1/products", token, product)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	productID := body["id"].(string)

	// Validation failures come back field-scoped.
	bad := map[string]any{
		"name":        "Brioche",
		"category_id": categoryID,
		"price":       1000.01,
		"stock":       30,
		"calories":    350,
	}
	resp, body = doJSON(t, env.app, http.MethodPost, "/api/v1/products", token, bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "price")

	// The listing and detail pages are public.
	resp, body = doJSON(t, env.app, http.MethodGet, "/api/v1/products/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["total_items"])

	resp, body = doJSON(t, env.app, http.MethodGet, "/api/v1/products/"+productID, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Croissant", body["name"])

	// Deleting also runs behind the capability.
	resp, _ = doJSON(t, env.app, http.MethodDelete, "/api/v1/products/"+productID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, env.app, http.MethodGet, "/api/v1/products/"+productID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProductListingFilters(t *testing.T) {
	env := setupApp(t)

	category := &models.Category{Name: "Bread"}
	assert.NoError(t, env.catalog.CreateCategory(category))

	for _, p := range []models.Product{
		{Name: "Baguette", CategoryID: category.ID, Price: 8, Stock: 40},
		{Name: "Cozonac", CategoryID: category.ID, Price: 35, Stock: 5},
		{Name: "Covrig", CategoryID: category.ID, Price: 3, Stock: 200},
	} {
		product := p
		assert.NoError(t, env.products.Create(&product))
	}

	resp, body := doJSON(t, env.app, http.MethodGet, "/api/v1/products/?name=co", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["total_items"])

	resp, body = doJSON(t, env.app, http.MethodGet, "/api/v1/products/?min_price=5&max_price=40", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["total_items"])

	resp, body = doJSON(t, env.app, http.MethodGet, "/api/v1/products/?stock=100", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["total_items"])
}

func TestContactFormEndpoint(t *testing.T) {
	env := setupApp(t)

	valid := map[string]any{
		"first_name":    "Maria",
		"last_name":     "Ionescu",
		"birth_date":    "1990-03-10",
		"email":         "maria@example.com",
		"confirm_email": "maria@example.com",
		"message_type":  "question",
		"subject":       "Opening Hours",
		"message":       "Are you open on Sunday mornings? Maria Ionescu",
	}
	resp, body := doJSON(t, env.app, http.MethodPost, "/api/v1/contact", "", valid)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Thank you for your message!", body["message"])
	contact := body["contact"].(map[string]any)
	assert.Equal(t, "Maria", contact["first_name"])
	assert.NotEmpty(t, contact["age"])

	invalid := map[string]any{}
	for k, v := range valid {
		invalid[k] = v
	}
	invalid["message"] = "Too short. Maria Ionescu"
	resp, body = doJSON(t, env.app, http.MethodPost, "/api/v1/contact", "", invalid)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errs := body["errors"].(map[string]any)
	assert.Equal(t, "Message must contain between 5 and 100 words.", errs["non_field"])
}

func TestSitemap(t *testing.T) {
	env := setupApp(t)

	category := &models.Category{Name: "Bread"}
	assert.NoError(t, env.catalog.CreateCategory(category))
	product := &models.Product{Name: "Baguette", CategoryID: category.ID, Price: 8, Stock: 40}
	assert.NoError(t, env.products.Create(product))

	req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
	resp, err := env.app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "xml")

	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	resp.Body.Close()
	assert.Contains(t, string(raw), "/api/v1/products/"+product.ID)
	assert.Contains(t, string(raw), "<changefreq>monthly</changefreq>")
}
