package mocks

import (
	"context"

	"github.com/kidwise/api/internal/content"
	"github.com/stretchr/testify/mock"
)

// MockGenerator is a mock type for the content.Generator type
type MockGenerator struct {
	mock.Mock
}

func (_m *MockGenerator) Answer(ctx context.Context, req content.GenerationRequest) (*content.ReviewedContent, error) {
	ret := _m.Called(ctx, req)
	r, _ := ret.Get(0).(*content.ReviewedContent)
	return r, ret.Error(1)
}

func (_m *MockGenerator) GeneratePlanContent(ctx context.Context, req content.PlanRequest) (*content.PlanContent, error) {
	ret := _m.Called(ctx, req)
	p, _ := ret.Get(0).(*content.PlanContent)
	return p, ret.Error(1)
}

// NewMockGenerator creates a MockGenerator that asserts its expectations on cleanup.
func NewMockGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGenerator {
	m := &MockGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ content.Generator = (*MockGenerator)(nil)
