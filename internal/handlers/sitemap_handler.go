package handlers

import (
	"encoding/xml"
	"fmt"

	"brutarie/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SitemapHandler serves /sitemap.xml enumerating products, categories,
// promotions, bakeries, and the static pages.
type SitemapHandler struct {
	productService   *services.ProductService
	catalogService   *services.CatalogService
	promotionService *services.PromotionService
	baseURL          string
}

// NewSitemapHandler creates a new SitemapHandler.
func NewSitemapHandler(productService *services.ProductService, catalogService *services.CatalogService,
	promotionService *services.PromotionService, baseURL string) *SitemapHandler {
	return &SitemapHandler{
		productService:   productService,
		catalogService:   catalogService,
		promotionService: promotionService,
		baseURL:          baseURL,
	}
}

// RegisterRoutes registers the sitemap route on the app root.
func (h *SitemapHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/sitemap.xml", h.HandleSitemap)
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// HandleSitemap renders the sitemap.
func (h *SitemapHandler) HandleSitemap(c *fiber.Ctx) error {
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}

	products, err := h.productService.GetAllProducts()
	if err != nil {
		return respondError(c, err)
	}
	for _, p := range products {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        fmt.Sprintf("%s/api/v1/products/%s", h.baseURL, p.ID),
			LastMod:    p.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "monthly",
			Priority:   "0.5",
		})
	}

	categories, err := h.catalogService.GetAllCategories()
	if err != nil {
		return respondError(c, err)
	}
	for _, cat := range categories {
		set.URLs = append(set.URLs, sitemapURL{
			Loc: fmt.Sprintf("%s/api/v1/categories/%s", h.baseURL, cat.ID),
		})
	}

	promotions, err := h.promotionService.GetAllPromotions()
	if err != nil {
		return respondError(c, err)
	}
	for _, promo := range promotions {
		set.URLs = append(set.URLs, sitemapURL{
			Loc: fmt.Sprintf("%s/api/v1/promotions/%s", h.baseURL, promo.ID),
		})
	}

	bakeries, err := h.catalogService.GetAllBakeries()
	if err != nil {
		return respondError(c, err)
	}
	for _, b := range bakeries {
		set.URLs = append(set.URLs, sitemapURL{
			Loc: fmt.Sprintf("%s/api/v1/bakeries/%s", h.baseURL, b.ID),
		})
	}

	for _, page := range []string{"/", "/api/v1/contact"} {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.baseURL + page,
			ChangeFreq: "monthly",
			Priority:   "0.5",
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	return c.SendString(xml.Header + string(out))
}
