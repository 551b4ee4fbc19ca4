package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fusionwear/storefront/api/responses"
	"github.com/fusionwear/storefront/api/validators"
	"github.com/fusionwear/storefront/internal/browse"
	"github.com/fusionwear/storefront/internal/catalog"
	"github.com/fusionwear/storefront/internal/storefront"
	"github.com/fusionwear/storefront/pkg/enums"
	pkgerrors "github.com/fusionwear/storefront/pkg/errors"
	"github.com/fusionwear/storefront/pkg/logger"
)

const (
	maxQueryParamLen = 128
	maxListingLimit  = 200
)

var browseParams = []string{"sort", "collection", "q", "material", "priceRange", "features"}

type collectionsResponse struct {
	Collections []string `json:"collections"`
}

type productListResponse struct {
	storefront.ListingView
	Options *browse.Options `json:"options,omitempty"`
}

// CatalogCollections lists the distinct collections in catalog order.
func CatalogCollections(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, catalog.UnavailableMessage))
			return
		}
		collections := cat.Collections()
		if collections == nil {
			collections = []string{}
		}
		responses.WriteSuccess(w, collectionsResponse{Collections: collections})
	}
}

// CatalogProducts runs the browse pipeline for the query string. Filter
// options are included when a collection is selected.
func CatalogProducts(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseBrowseQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, maxListingLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := storefront.RenderListing(cat, q, storefront.State{})
		if limit > 0 && len(view.Cards) > limit {
			view.Cards = view.Cards[:limit]
		}

		out := productListResponse{ListingView: view}
		if cat != nil && q.Collection != "" {
			opts := browse.FilterOptions(cat.Products(), q.Collection)
			out.Options = &opts
		}
		responses.WriteSuccess(w, out)
	}
}

// CatalogProduct returns the quick-view model for one product.
func CatalogProduct(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, catalog.UnavailableMessage))
			return
		}
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		product, ok := cat.FindByID(id)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{"id": id}))
			return
		}
		responses.WriteSuccess(w, storefront.NewQuickView(product, false))
	}
}

func parseBrowseQuery(r *http.Request) (browse.Query, error) {
	values := make(map[string]string, len(browseParams))
	for _, key := range browseParams {
		value, err := validators.QueryString(r, key, maxQueryParamLen)
		if err != nil {
			return browse.Query{}, err
		}
		values[key] = value
	}
	sort, err := enums.ParseSortKey(values["sort"])
	if err != nil {
		return browse.Query{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort").
			WithDetails(map[string]any{"sort": enums.SortKeys()})
	}
	q := browse.Query{
		Collection: values["collection"],
		SearchTerm: values["q"],
		Sort:       sort,
		Material:   values["material"],
		PriceRange: values["priceRange"],
		Features:   values["features"],
	}
	return q.Normalized(), nil
}
