package solrsvc

import (
	"context"

	"github.com/kailas-cloud/solrsvc/internal/domain/document"
	"github.com/kailas-cloud/solrsvc/internal/domain/result"
	"github.com/kailas-cloud/solrsvc/internal/events"
	resourceuc "github.com/kailas-cloud/solrsvc/internal/usecase/resource"
)

// --- Mock resource usecase ---

type mockResourceUC struct {
	findFn           func(ctx context.Context, p resourceuc.FindParams) (result.Result, error)
	getFn            func(ctx context.Context, id string) (document.Document, error)
	createFn         func(ctx context.Context, docs ...document.Document) ([]document.Document, error)
	updateFn         func(ctx context.Context, id string, doc document.Document) (document.Document, error)
	patchFn          func(ctx context.Context, id string, fields document.Document) (document.Document, error)
	removeFn         func(ctx context.Context, id string) (document.Document, error)
	removeMatchingFn func(ctx context.Context, filter map[string]any) (int64, error)
	emitFn           func(ctx context.Context, name string, data any) error
}

func (m *mockResourceUC) Find(ctx context.Context, p resourceuc.FindParams) (result.Result, error) {
	if m.findFn != nil {
		return m.findFn(ctx, p)
	}
	return result.Unpaginated{}, nil
}

func (m *mockResourceUC) Get(ctx context.Context, id string) (document.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return document.Document{"id": id}, nil
}

func (m *mockResourceUC) Create(ctx context.Context, docs ...document.Document) ([]document.Document, error) {
	if m.createFn != nil {
		return m.createFn(ctx, docs...)
	}
	return docs, nil
}

func (m *mockResourceUC) Update(ctx context.Context, id string, doc document.Document) (document.Document, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, doc)
	}
	return doc, nil
}

func (m *mockResourceUC) Patch(ctx context.Context, id string, fields document.Document) (document.Document, error) {
	if m.patchFn != nil {
		return m.patchFn(ctx, id, fields)
	}
	return fields, nil
}

func (m *mockResourceUC) Remove(ctx context.Context, id string) (document.Document, error) {
	if m.removeFn != nil {
		return m.removeFn(ctx, id)
	}
	return document.Document{"id": id}, nil
}

func (m *mockResourceUC) RemoveMatching(ctx context.Context, filter map[string]any) (int64, error) {
	if m.removeMatchingFn != nil {
		return m.removeMatchingFn(ctx, filter)
	}
	return 0, nil
}

func (m *mockResourceUC) Emit(ctx context.Context, name string, data any) error {
	if m.emitFn != nil {
		return m.emitFn(ctx, name, data)
	}
	return nil
}

// --- Helper ---

func testClient(resources *mockResourceUC) *Client {
	if resources == nil {
		resources = &mockResourceUC{}
	}
	return &Client{
		resources: resources,
		bus:       events.NewBus(),
	}
}
