package itinerary

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/PurpleDrip/Travel-Planner/internal/app/models"
)

// MockItineraryRepo is a mock implementation of the ItineraryRepo interface
type MockItineraryRepo struct {
	mock.Mock
}

func (m *MockItineraryRepo) Create(ctx context.Context, itin *models.Itinerary) (*models.Itinerary, error) {
	args := m.Called(ctx, itin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Itinerary), args.Error(1)
}

func (m *MockItineraryRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Itinerary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Itinerary), args.Error(1)
}

func (m *MockItineraryRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Itinerary, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Itinerary), args.Error(1)
}

func (m *MockItineraryRepo) Update(ctx context.Context, itin *models.Itinerary) (*models.Itinerary, error) {
	args := m.Called(ctx, itin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Itinerary), args.Error(1)
}

func (m *MockItineraryRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockPlanGenerator is a mock implementation of the PlanGenerator interface
type MockPlanGenerator struct {
	mock.Mock
}

func (m *MockPlanGenerator) GeneratePlan(ctx context.Context, destination string, startDate, endDate time.Time, preferences string) (*models.GeneratedPlan, error) {
	args := m.Called(ctx, destination, startDate, endDate, preferences)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GeneratedPlan), args.Error(1)
}

func threeDayPlan() *models.GeneratedPlan {
	return &models.GeneratedPlan{
		Title: "Three Days in Paris",
		Days: []models.Day{
			{Day: 1, Date: "2025-06-01"},
			{Day: 2, Date: "2025-06-02"},
			{Day: 3, Date: "2025-06-03"},
		},
	}
}

func TestCreateItinerary(t *testing.T) {
	logger := zap.NewNop()
	ownerID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockGen := new(MockPlanGenerator)
		service := NewItineraryService(mockRepo, mockGen, logger)
		ctx := context.Background()

		plan := threeDayPlan()
		mockGen.On("GeneratePlan", mock.Anything, "Paris", mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), "museums").
			Return(plan, nil)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(itin *models.Itinerary) bool {
			return itin.UserID == ownerID && itin.Destination == "Paris" && itin.GeneratedPlan == plan
		})).Return(&models.Itinerary{
			ID:            uuid.New(),
			UserID:        ownerID,
			Destination:   "Paris",
			GeneratedPlan: plan,
		}, nil)

		itin, err := service.CreateItinerary(ctx, ownerID, CreateItineraryRequest{
			Destination: "Paris",
			StartDate:   "2025-06-01",
			EndDate:     "2025-06-03",
			Preferences: "museums",
		})
		assert.NoError(t, err)
		assert.Len(t, itin.GeneratedPlan.Days, 3)
		mockGen.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("IdenticalRequestsEachCallGenerator", func(t *testing.T) {
		// Two identical requests must trigger two independent model calls
		// and two stored records; generation results are never cached.
		mockRepo := new(MockItineraryRepo)
		mockGen := new(MockPlanGenerator)
		service := NewItineraryService(mockRepo, mockGen, logger)
		ctx := context.Background()

		mockGen.On("GeneratePlan", mock.Anything, "Paris", mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), "").
			Return(threeDayPlan(), nil).Twice()
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Itinerary")).
			Return(&models.Itinerary{ID: uuid.New(), UserID: ownerID}, nil).Twice()

		req := CreateItineraryRequest{Destination: "Paris", StartDate: "2025-06-01", EndDate: "2025-06-03"}
		_, err := service.CreateItinerary(ctx, ownerID, req)
		assert.NoError(t, err)
		_, err = service.CreateItinerary(ctx, ownerID, req)
		assert.NoError(t, err)

		mockGen.AssertNumberOfCalls(t, "GeneratePlan", 2)
		mockGen.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("MissingFieldsFailBeforeGeneration", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockGen := new(MockPlanGenerator)
		service := NewItineraryService(mockRepo, mockGen, logger)

		_, err := service.CreateItinerary(context.Background(), ownerID, CreateItineraryRequest{
			Destination: "",
			StartDate:   "2025-06-01",
			EndDate:     "2025-06-03",
		})
		assert.ErrorIs(t, err, models.ErrValidation)
		mockGen.AssertNotCalled(t, "GeneratePlan")
	})

	t.Run("UnparseableDateFailsBeforeGeneration", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockGen := new(MockPlanGenerator)
		service := NewItineraryService(mockRepo, mockGen, logger)

		_, err := service.CreateItinerary(context.Background(), ownerID, CreateItineraryRequest{
			Destination: "Paris",
			StartDate:   "June 1st",
			EndDate:     "2025-06-03",
		})
		assert.ErrorIs(t, err, models.ErrValidation)
		mockGen.AssertNotCalled(t, "GeneratePlan")
	})

	t.Run("EndBeforeStartFailsBeforeGeneration", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockGen := new(MockPlanGenerator)
		service := NewItineraryService(mockRepo, mockGen, logger)

		_, err := service.CreateItinerary(context.Background(), ownerID, CreateItineraryRequest{
			Destination: "Paris",
			StartDate:   "2025-06-03",
			EndDate:     "2025-06-01",
		})
		assert.ErrorIs(t, err, models.ErrValidation)
		mockGen.AssertNotCalled(t, "GeneratePlan")
	})

	t.Run("GenerationFailurePersistsNothing", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockGen := new(MockPlanGenerator)
		service := NewItineraryService(mockRepo, mockGen, logger)
		ctx := context.Background()

		mockGen.On("GeneratePlan", mock.Anything, "Paris", mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), "").
			Return(nil, models.ErrGenerationFailed)

		_, err := service.CreateItinerary(ctx, ownerID, CreateItineraryRequest{
			Destination: "Paris",
			StartDate:   "2025-06-01",
			EndDate:     "2025-06-03",
		})
		assert.ErrorIs(t, err, models.ErrGenerationFailed)
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestListItineraries(t *testing.T) {
	logger := zap.NewNop()
	ownerID := uuid.New()

	t.Run("EmptyListIsNotAnError", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		service := NewItineraryService(mockRepo, new(MockPlanGenerator), logger)
		ctx := context.Background()

		mockRepo.On("ListByUser", ctx, ownerID).Return([]models.Itinerary{}, nil)

		itineraries, err := service.ListItineraries(ctx, ownerID)
		assert.NoError(t, err)
		assert.Empty(t, itineraries)
	})
}

func TestUpdateItinerary(t *testing.T) {
	logger := zap.NewNop()
	ownerID := uuid.New()
	itinID := uuid.New()

	existing := func() *models.Itinerary {
		return &models.Itinerary{
			ID:          itinID,
			UserID:      ownerID,
			Destination: "Paris",
			StartDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
			Preferences: "museums",
			GeneratedPlan: &models.GeneratedPlan{
				Title: "Three Days in Paris",
				Days:  []models.Day{{Day: 1}},
			},
		}
	}

	t.Run("NilPreferencesMeansNoChange", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		service := NewItineraryService(mockRepo, new(MockPlanGenerator), logger)
		ctx := context.Background()

		mockRepo.On("GetByID", ctx, ownerID, itinID).Return(existing(), nil)
		mockRepo.On("Update", ctx, mock.MatchedBy(func(itin *models.Itinerary) bool {
			return itin.Destination == "Lyon" && itin.Preferences == "museums"
		})).Return(existing(), nil)

		dest := "Lyon"
		_, err := service.UpdateItinerary(ctx, ownerID, itinID, UpdateItineraryRequest{Destination: &dest})
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("EmptyPreferencesClearsField", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		service := NewItineraryService(mockRepo, new(MockPlanGenerator), logger)
		ctx := context.Background()

		mockRepo.On("GetByID", ctx, ownerID, itinID).Return(existing(), nil)
		mockRepo.On("Update", ctx, mock.MatchedBy(func(itin *models.Itinerary) bool {
			return itin.Preferences == ""
		})).Return(existing(), nil)

		empty := ""
		_, err := service.UpdateItinerary(ctx, ownerID, itinID, UpdateItineraryRequest{Preferences: &empty})
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("PlanIsNeverRegenerated", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockGen := new(MockPlanGenerator)
		service := NewItineraryService(mockRepo, mockGen, logger)
		ctx := context.Background()

		mockRepo.On("GetByID", ctx, ownerID, itinID).Return(existing(), nil)
		mockRepo.On("Update", ctx, mock.MatchedBy(func(itin *models.Itinerary) bool {
			return itin.GeneratedPlan != nil && itin.GeneratedPlan.Title == "Three Days in Paris"
		})).Return(existing(), nil)

		dest := "Lyon"
		_, err := service.UpdateItinerary(ctx, ownerID, itinID, UpdateItineraryRequest{Destination: &dest})
		assert.NoError(t, err)
		mockGen.AssertNotCalled(t, "GeneratePlan")
	})

	t.Run("MergedDatesMustStayOrdered", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		service := NewItineraryService(mockRepo, new(MockPlanGenerator), logger)
		ctx := context.Background()

		mockRepo.On("GetByID", ctx, ownerID, itinID).Return(existing(), nil)

		badEnd := "2025-05-30"
		_, err := service.UpdateItinerary(ctx, ownerID, itinID, UpdateItineraryRequest{EndDate: &badEnd})
		assert.ErrorIs(t, err, models.ErrValidation)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("NotFoundPropagates", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		service := NewItineraryService(mockRepo, new(MockPlanGenerator), logger)
		ctx := context.Background()

		mockRepo.On("GetByID", ctx, ownerID, itinID).Return(nil, models.ErrNotFound)

		dest := "Lyon"
		_, err := service.UpdateItinerary(ctx, ownerID, itinID, UpdateItineraryRequest{Destination: &dest})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestDeleteItinerary(t *testing.T) {
	logger := zap.NewNop()
	ownerID := uuid.New()
	itinID := uuid.New()

	t.Run("NotFoundPropagates", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		service := NewItineraryService(mockRepo, new(MockPlanGenerator), logger)
		ctx := context.Background()

		mockRepo.On("Delete", ctx, ownerID, itinID).Return(models.ErrNotFound)

		err := service.DeleteItinerary(ctx, ownerID, itinID)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
