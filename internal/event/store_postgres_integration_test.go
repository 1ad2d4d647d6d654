//go:build integration

package event_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gatepass/internal/event"
	dErrors "gatepass/pkg/domainerrors"
	"gatepass/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *event.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = event.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(),
		"entry_items", "entry_records", "tourists", "events")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestCreateAndGet() {
	ctx := context.Background()

	created, err := s.store.Create(ctx, event.CreateInput{
		Name:      "Festival",
		Place:     "City Hall",
		StartDate: time.Now(),
		EndDate:   time.Now().Add(48 * time.Hour),
		IsActive:  true,
	})
	s.Require().NoError(err)
	s.NotZero(created.ID)

	got, err := s.store.GetByID(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Festival", got.Name)
	s.True(got.IsActive)
}

func (s *PostgresStoreSuite) TestGetMissing() {
	_, err := s.store.GetByID(context.Background(), 999)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}

func (s *PostgresStoreSuite) TestUpdateStatus() {
	ctx := context.Background()

	created, err := s.store.Create(ctx, event.CreateInput{
		Name:      "Festival",
		Place:     "City Hall",
		StartDate: time.Now(),
		EndDate:   time.Now().Add(time.Hour),
		IsActive:  true,
	})
	s.Require().NoError(err)

	updated, err := s.store.UpdateStatus(ctx, created.ID, false)
	s.Require().NoError(err)
	s.False(updated.IsActive)

	list, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(list, 1)
}
