package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kidwise/api/internal/models"
	"github.com/kidwise/api/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock type for the UserRepository type
type MockUserRepository struct {
	mock.Mock
}

func (_m *MockUserRepository) Create(ctx context.Context, u *models.User) error {
	return _m.Called(ctx, u).Error(0)
}

func (_m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ret := _m.Called(ctx, email)
	u, _ := ret.Get(0).(*models.User)
	return u, ret.Error(1)
}

func (_m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	ret := _m.Called(ctx, id)
	u, _ := ret.Get(0).(*models.User)
	return u, ret.Error(1)
}

// MockChildRepository is a mock type for the ChildRepository type
type MockChildRepository struct {
	mock.Mock
}

func (_m *MockChildRepository) List(ctx context.Context, userID uuid.UUID) ([]*models.Child, error) {
	ret := _m.Called(ctx, userID)
	c, _ := ret.Get(0).([]*models.Child)
	return c, ret.Error(1)
}

func (_m *MockChildRepository) Get(ctx context.Context, userID, id uuid.UUID) (*models.Child, error) {
	ret := _m.Called(ctx, userID, id)
	c, _ := ret.Get(0).(*models.Child)
	return c, ret.Error(1)
}

func (_m *MockChildRepository) Create(ctx context.Context, c *models.Child) error {
	return _m.Called(ctx, c).Error(0)
}

func (_m *MockChildRepository) Update(ctx context.Context, userID, id uuid.UUID, upd models.ChildUpdate) (*models.Child, error) {
	ret := _m.Called(ctx, userID, id, upd)
	c, _ := ret.Get(0).(*models.Child)
	return c, ret.Error(1)
}

func (_m *MockChildRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return _m.Called(ctx, userID, id).Error(0)
}

// MockQuestionRepository is a mock type for the QuestionRepository type
type MockQuestionRepository struct {
	mock.Mock
}

func (_m *MockQuestionRepository) Create(ctx context.Context, s *models.QuestionSession) error {
	return _m.Called(ctx, s).Error(0)
}

func (_m *MockQuestionRepository) Get(ctx context.Context, userID, id uuid.UUID) (*models.QuestionSession, error) {
	ret := _m.Called(ctx, userID, id)
	s, _ := ret.Get(0).(*models.QuestionSession)
	return s, ret.Error(1)
}

func (_m *MockQuestionRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.QuestionSession, error) {
	ret := _m.Called(ctx, userID, limit, offset)
	s, _ := ret.Get(0).([]*models.QuestionSession)
	return s, ret.Error(1)
}

func (_m *MockQuestionRepository) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	ret := _m.Called(ctx, userID)
	n, _ := ret.Get(0).(int64)
	return n, ret.Error(1)
}

func (_m *MockQuestionRepository) AppendFollowUp(ctx context.Context, userID, id uuid.UUID, f models.FollowUp) error {
	return _m.Called(ctx, userID, id, f).Error(0)
}

func (_m *MockQuestionRepository) AppendFeedback(ctx context.Context, userID, id uuid.UUID, f models.Feedback) error {
	return _m.Called(ctx, userID, id, f).Error(0)
}

// MockPlanRepository is a mock type for the PlanRepository type
type MockPlanRepository struct {
	mock.Mock
}

func (_m *MockPlanRepository) Create(ctx context.Context, t *models.PlanTemplate) error {
	return _m.Called(ctx, t).Error(0)
}

func (_m *MockPlanRepository) List(ctx context.Context, userID uuid.UUID) ([]*models.PlanTemplate, error) {
	ret := _m.Called(ctx, userID)
	t, _ := ret.Get(0).([]*models.PlanTemplate)
	return t, ret.Error(1)
}

func (_m *MockPlanRepository) Get(ctx context.Context, userID, id uuid.UUID) (*models.PlanTemplate, error) {
	ret := _m.Called(ctx, userID, id)
	t, _ := ret.Get(0).(*models.PlanTemplate)
	return t, ret.Error(1)
}

func (_m *MockPlanRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return _m.Called(ctx, userID, id).Error(0)
}

// MockGenerationLogRepository is a mock type for the GenerationLogRepository type
type MockGenerationLogRepository struct {
	mock.Mock
}

func (_m *MockGenerationLogRepository) Insert(ctx context.Context, l *models.GenerationLog) error {
	return _m.Called(ctx, l).Error(0)
}

func (_m *MockGenerationLogRepository) Summarize(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.UsageSummary, error) {
	ret := _m.Called(ctx, userID, since)
	s, _ := ret.Get(0).([]models.UsageSummary)
	return s, ret.Error(1)
}

var (
	_ repository.UserRepository          = (*MockUserRepository)(nil)
	_ repository.ChildRepository         = (*MockChildRepository)(nil)
	_ repository.QuestionRepository      = (*MockQuestionRepository)(nil)
	_ repository.PlanRepository          = (*MockPlanRepository)(nil)
	_ repository.GenerationLogRepository = (*MockGenerationLogRepository)(nil)
)
