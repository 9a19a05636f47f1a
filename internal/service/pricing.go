package service

import (
	"context"
	"fmt"

	"backoffice/internal/models"
	"backoffice/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResolvedPrice is the per-variant pricing context the checkout flow works
// with: the latest catalog price plus the provider-side reference.
type ResolvedPrice struct {
	VariantID        uuid.UUID
	ProductID        uuid.UUID
	Title            string
	SKU              string
	UnitPriceCents   int64
	CurrencyCode     string
	ExternalPriceRef string
}

type PriceResolver struct {
	variants repository.VariantRepo
	prices   repository.PriceRepo
	provider PaymentProvider
	log      *zap.Logger
}

func NewPriceResolver(variants repository.VariantRepo, prices repository.PriceRepo, provider PaymentProvider, log *zap.Logger) *PriceResolver {
	return &PriceResolver{variants: variants, prices: prices, provider: provider, log: log}
}

// Resolve returns pricing for each distinct variant id. Variants whose latest
// price row lacks a provider reference get one provisioned on the spot; the
// reference is written back with a conditional update, so under concurrent
// resolution of the same variant exactly one writer wins and the rest adopt
// the winner's reference.
func (r *PriceResolver) Resolve(ctx context.Context, variantIDs []uuid.UUID) (map[uuid.UUID]ResolvedPrice, error) {
	out := make(map[uuid.UUID]ResolvedPrice, len(variantIDs))

	for _, vid := range variantIDs {
		if _, seen := out[vid]; seen {
			continue
		}

		variant, err := r.variants.GetWithProduct(ctx, vid)
		if err != nil {
			return nil, err
		}
		if variant == nil {
			return nil, ErrVariantNotFound
		}

		price, err := r.prices.LatestByVariant(ctx, vid)
		if err != nil {
			return nil, err
		}
		if price == nil {
			return nil, ErrVariantNotFound
		}

		ref := ""
		if price.ExternalPriceRef != nil {
			ref = *price.ExternalPriceRef
		}
		if ref == "" {
			ref, err = r.provision(ctx, variant.Title, variant.Product, price.ID, price.AmountCents, price.CurrencyCode)
			if err != nil {
				return nil, err
			}
		}

		rp := ResolvedPrice{
			VariantID:        vid,
			ProductID:        price.ProductID,
			Title:            variant.Title,
			SKU:              variant.SKU,
			UnitPriceCents:   price.AmountCents,
			CurrencyCode:     price.CurrencyCode,
			ExternalPriceRef: ref,
		}
		out[vid] = rp
	}

	return out, nil
}

func (r *PriceResolver) provision(ctx context.Context, title string, product *models.Product, priceID uuid.UUID, amountCents int64, currency string) (string, error) {
	name := title
	description := ""
	if product != nil {
		if product.Title != "" {
			name = product.Title + " - " + title
		}
		description = product.Description
	}

	productRef, err := r.provider.CreateProduct(ctx, name, description)
	if err != nil {
		r.log.Error("provider product creation failed", zap.String("price_id", priceID.String()), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrPriceProvisioningFailed, err)
	}
	priceRef, err := r.provider.CreatePrice(ctx, productRef, amountCents, currency)
	if err != nil {
		r.log.Error("provider price creation failed", zap.String("price_id", priceID.String()), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrPriceProvisioningFailed, err)
	}

	won, err := r.prices.SetExternalRefIfEmpty(ctx, priceID, priceRef)
	if err != nil {
		return "", err
	}
	if !won {
		// A concurrent checkout provisioned the same variant first. Use its
		// reference; ours becomes an orphan on the provider side.
		current, err := r.prices.GetByID(ctx, priceID)
		if err != nil {
			return "", err
		}
		if current != nil && current.ExternalPriceRef != nil && *current.ExternalPriceRef != "" {
			r.log.Info("lost provisioning race, adopting existing reference",
				zap.String("price_id", priceID.String()))
			return *current.ExternalPriceRef, nil
		}
	}
	return priceRef, nil
}
