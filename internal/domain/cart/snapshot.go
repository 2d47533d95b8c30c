package cart

import "ordermgmt/internal/domain/model"

// Catalog resolves product references against a point-in-time view of the catalog.
type Catalog interface {
	Lookup(ref model.ProductRef) (model.Product, bool)
}

// Snapshot is an immutable Catalog built from a product list.
type Snapshot struct {
	byID   map[int64]model.Product
	byName map[string]model.Product
}

func NewSnapshot(products []model.Product) Snapshot {
	s := Snapshot{
		byID:   make(map[int64]model.Product, len(products)),
		byName: make(map[string]model.Product, len(products)),
	}
	for _, p := range products {
		s.byID[p.ID] = p
		s.byName[p.Name] = p
	}
	return s
}

func (s Snapshot) Lookup(ref model.ProductRef) (model.Product, bool) {
	if ref.ID > 0 {
		p, ok := s.byID[ref.ID]
		return p, ok
	}
	if ref.Name == "" {
		return model.Product{}, false
	}
	p, ok := s.byName[ref.Name]
	return p, ok
}

func (s Snapshot) Len() int {
	return len(s.byID)
}
