package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	payrollapp "github.com/timax/backend/internal/application/payroll"
	"github.com/timax/backend/internal/domain/payroll"
	"github.com/timax/backend/internal/domain/shared"
	"github.com/timax/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockTipRepository implements payroll.TipRepository for testing
type MockTipRepository struct {
	mock.Mock
}

func (m *MockTipRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.Tip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.Tip), args.Error(1)
}

func (m *MockTipRepository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]payroll.Tip, error) {
	args := m.Called(ctx, employeeID)
	return args.Get(0).([]payroll.Tip), args.Error(1)
}

func (m *MockTipRepository) Save(ctx context.Context, tip *payroll.Tip) error {
	args := m.Called(ctx, tip)
	return args.Error(0)
}

func setupTipRouter(repo *MockTipRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	clock := shared.FixedClock{Time: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	service := payrollapp.NewTipService(repo, clock, zap.NewNop())
	NewTipHandler(service).RegisterRoutes(router.Group("/api/v1"))

	return router
}

func newPendingTip(t *testing.T) *payroll.Tip {
	t.Helper()
	tip, err := payroll.NewTip(uuid.New(), uuid.New(), decimal.NewFromInt(50), "great service")
	require.NoError(t, err)
	return tip
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestTipHandler_RecordTip_Success(t *testing.T) {
	repo := new(MockTipRepository)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*payroll.Tip")).Return(nil)

	router := setupTipRouter(repo)

	body, _ := json.Marshal(RecordTipRequest{
		EmployeeID: uuid.NewString(),
		JobID:      uuid.NewString(),
		Amount:     50,
		Note:       "great service",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/tips", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	repo.AssertExpectations(t)
}

func TestTipHandler_RecordTip_MissingJobID(t *testing.T) {
	repo := new(MockTipRepository)
	router := setupTipRouter(repo)

	body, _ := json.Marshal(map[string]interface{}{
		"employee_id": uuid.NewString(),
		"amount":      50,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/tips", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "Save")
}

func TestTipHandler_ListTips(t *testing.T) {
	repo := new(MockTipRepository)
	router := setupTipRouter(repo)

	tip := newPendingTip(t)
	repo.On("FindByEmployee", mock.Anything, tip.EmployeeID).Return([]payroll.Tip{*tip}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll/tips?employee_id="+tip.EmployeeID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	items, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 1)
	repo.AssertExpectations(t)
}

func TestTipHandler_ListTips_MissingEmployeeID(t *testing.T) {
	repo := new(MockTipRepository)
	router := setupTipRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll/tips", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTipHandler_PayTip_Success(t *testing.T) {
	repo := new(MockTipRepository)
	router := setupTipRouter(repo)

	tip := newPendingTip(t)
	repo.On("FindByID", mock.Anything, tip.ID).Return(tip, nil)
	repo.On("Save", mock.Anything, tip).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/tips/"+tip.ID.String()+"/pay", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payroll.TipStatusPaid, tip.Status)
	repo.AssertExpectations(t)
}

func TestTipHandler_PayTip_NotFound(t *testing.T) {
	repo := new(MockTipRepository)
	router := setupTipRouter(repo)

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/tips/"+id.String()+"/pay", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestTipHandler_CancelTip_AlreadyPaid(t *testing.T) {
	repo := new(MockTipRepository)
	router := setupTipRouter(repo)

	tip := newPendingTip(t)
	require.NoError(t, tip.MarkPaid(time.Now()))
	repo.On("FindByID", mock.Anything, tip.ID).Return(tip, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/tips/"+tip.ID.String()+"/cancel", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)
	repo.AssertNotCalled(t, "Save")
}
