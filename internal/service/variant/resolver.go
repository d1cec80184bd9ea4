// Package variant resolves a cart line's selected option values against
// a product's option set and variant list to produce the concrete
// purchasable unit.
package variant

import "shopcart/internal/domain"

// Resolve maps a selection to a sellable unit. An explicit variant whose
// bound option-value set equals the selection always wins over the
// synthetic base+deltas computation, because variant rows reflect
// merchant-curated inventory. A pure function over the supplied catalog
// snapshot.
func Resolve(p domain.Product, selectedOptionValueIDs []string) (domain.ResolvedUnit, error) {
	selected := dedupe(selectedOptionValueIDs)

	values := make([]domain.OptionValue, 0, len(selected))
	for _, id := range selected {
		v, ok := p.OptionValueByID(id)
		if !ok {
			return domain.ResolvedUnit{}, &domain.ResolutionError{
				ProductID:     p.ID,
				OptionValueID: id,
				Err:           domain.ErrUnknownOptionValue,
			}
		}
		values = append(values, v)
	}

	for _, opt := range p.Options {
		if !opt.Required {
			continue
		}
		if !coversOption(values, opt.Code) {
			return domain.ResolvedUnit{}, &domain.ResolutionError{
				ProductID:  p.ID,
				OptionCode: opt.Code,
				Err:        domain.ErrIncompleteSelection,
			}
		}
	}

	if v, ok := matchVariant(p, selected); ok {
		return domain.ResolvedUnit{
			UnitID:       v.ID,
			ProductID:    p.ID,
			SKU:          v.SKU,
			Name:         p.Name,
			FromVariant:  true,
			PriceCents:   v.PriceCents,
			WeightGrams:  v.WeightGrams,
			Currency:     p.Currency,
			OptionValues: values,
		}, nil
	}

	if p.VariantsRequired {
		return domain.ResolvedUnit{}, &domain.ResolutionError{
			ProductID: p.ID,
			Err:       domain.ErrNoMatchingVariant,
		}
	}

	unit := domain.ResolvedUnit{
		UnitID:       p.ID,
		ProductID:    p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		PriceCents:   p.PriceCents,
		WeightGrams:  p.WeightGrams,
		Currency:     p.Currency,
		OptionValues: values,
	}
	for _, v := range values {
		unit.PriceCents += v.PriceDeltaCents
		unit.WeightGrams += v.WeightDeltaGrams
	}
	return unit, nil
}

// matchVariant finds a variant whose option-value set equals the
// selection. Order is irrelevant on both sides.
func matchVariant(p domain.Product, selected []string) (domain.ProductVariant, bool) {
	for _, v := range p.Variants {
		if sameSet(v.OptionValueIDs, selected) {
			return v, true
		}
	}
	return domain.ProductVariant{}, false
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, id := range a {
		seen[id] = struct{}{}
	}
	if len(seen) != len(b) {
		return false
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			return false
		}
	}
	return true
}

func coversOption(values []domain.OptionValue, optionCode string) bool {
	for _, v := range values {
		if v.OptionCode == optionCode {
			return true
		}
	}
	return false
}

// dedupe drops repeated IDs while preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
