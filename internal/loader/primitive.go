package loader

import (
	"context"

	"github.com/vk/scriptassoc/internal/schema"
)

type primitiveLookup struct {
	ctx   context.Context
	store TableStore
	err   error
}

func (p *primitiveLookup) is(dataType string) bool {
	if p.err != nil {
		return true
	}
	ok, err := p.store.IsPrimitive(p.ctx, dataType)
	if err != nil {
		p.err = err
		return true
	}
	return ok
}

func childReference(def *schema.TypeDefinition, cells []string, p *primitiveLookup) (string, string, bool, error) {
	dataType, variable, ok, err := schema.ChildReference(def, cells, p.is)
	if err != nil {
		return "", "", false, err
	}
	if p.err != nil {
		return "", "", false, p.err
	}
	return dataType, variable, ok, nil
}
