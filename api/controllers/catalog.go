package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/universalshop/shop-backend/api/middleware"
	"github.com/universalshop/shop-backend/api/responses"
	"github.com/universalshop/shop-backend/api/validators"
	"github.com/universalshop/shop-backend/internal/catalog"
	"github.com/universalshop/shop-backend/internal/views"
	pkgerrors "github.com/universalshop/shop-backend/pkg/errors"
	"github.com/universalshop/shop-backend/pkg/logger"
)

func ListCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isGame, err := validators.ParseQueryBool(r, "is_game")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categories, err := svc.ListCategories(r.Context(), isGame)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, categories)
	}
}

func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := validators.ParseQueryUUID(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListProducts(r.Context(), categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// GetProduct returns a single product by id and records the lookup as a
// product view for the caller. Unavailable products still resolve here;
// only listings hide them.
func GetProduct(svc catalog.Service, viewSvc views.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if user := middleware.UserFromContext(r.Context()); user != nil && viewSvc != nil {
			if err := viewSvc.RecordView(r.Context(), user.ID, product.ID); err != nil && logg != nil {
				logg.Warn(r.Context(), "views.record_failed")
			}
		}

		responses.WriteSuccess(w, product)
	}
}

type createProductRequest struct {
	Name         string  `json:"name" validate:"required"`
	Description  *string `json:"description,omitempty"`
	Price        string  `json:"price" validate:"required"`
	ImageURL     *string `json:"image_url,omitempty"`
	CategoryID   string  `json:"category_id" validate:"required,uuid"`
	DeliveryData string  `json:"delivery_data" validate:"required"`
}

func (req createProductRequest) toInput() (catalog.CreateProductInput, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil {
		return catalog.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return catalog.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
	}

	return catalog.CreateProductInput{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Price:        price,
		ImageURL:     req.ImageURL,
		CategoryID:   categoryID,
		DeliveryData: req.DeliveryData,
	}, nil
}

// CreateProduct lists a new product. Admin only.
func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}
