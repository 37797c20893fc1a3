package handlers

import (
	"context"
	"time"

	"github.com/finack/acc-smartlink/internal/models"
	"github.com/finack/acc-smartlink/internal/service"
)

// Test doubles for the service interfaces, shared by the handler tests.

type mockMonitoring struct {
	latest    *models.Reading
	latestErr error
	list      []models.Reading
	listErr   error
	gotFilter service.ReadingFilter
}

func (m *mockMonitoring) Latest(ctx context.Context) (*models.Reading, error) {
	return m.latest, m.latestErr
}

func (m *mockMonitoring) List(ctx context.Context, f service.ReadingFilter) ([]models.Reading, error) {
	m.gotFilter = f
	return m.list, m.listErr
}

type mockEventLog struct {
	events    []models.SessionEvent
	listErr   error
	gotFilter service.LogFilter
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.SessionEvent, error) {
	m.gotFilter = f
	return m.events, m.listErr
}

type mockCollector struct{}

func (mockCollector) Run(ctx context.Context, interval time.Duration) {}

type mockAuth struct {
	signUpID    int
	signUpErr   error
	token       string
	tokenErr    error
	parsedID    int
	parseErr    error
	gotToken    string
	gotUsername string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.gotUsername = username
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.gotUsername = username
	return m.token, m.tokenErr
}

func (m *mockAuth) ParseToken(accessToken string) (int, error) {
	m.gotToken = accessToken
	return m.parsedID, m.parseErr
}
