package service

import (
	"context"
	"testing"
	"time"

	"tablebook/core/errors"
	"tablebook/modules/restaurant/dto"
	"tablebook/modules/restaurant/entity"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type fakeRepo struct {
	restaurant *entity.Restaurant
	sector     *entity.Sector
	tables     []entity.Table
}

func (f *fakeRepo) GetRestaurantByID(_ context.Context, id uuid.UUID) (*entity.Restaurant, error) {
	if f.restaurant == nil || f.restaurant.ID != id {
		return nil, nil
	}
	return f.restaurant, nil
}

func (f *fakeRepo) GetSectorByID(_ context.Context, id uuid.UUID) (*entity.Sector, error) {
	if f.sector == nil || f.sector.ID != id {
		return nil, nil
	}
	return f.sector, nil
}

func (f *fakeRepo) ListTablesBySector(_ context.Context, _ uuid.UUID) ([]entity.Table, error) {
	return f.tables, nil
}

func (f *fakeRepo) GetTablesByIDs(_ context.Context, _ []uuid.UUID) ([]entity.Table, error) {
	return f.tables, nil
}

func (f *fakeRepo) ListServiceWindows(_ context.Context, _ uuid.UUID) ([]entity.ServiceWindow, error) {
	return nil, nil
}

func (f *fakeRepo) CreateTable(_ context.Context, table *entity.Table) (*entity.Table, error) {
	table.CreatedAt = time.Now()
	f.tables = append(f.tables, *table)
	return table, nil
}

type fakeBlackouts struct {
	created *entity.Blackout
}

func (f *fakeBlackouts) CreateBlackout(_ context.Context, b *entity.Blackout) (*entity.Blackout, error) {
	b.CreatedAt = time.Now()
	f.created = b
	return b, nil
}

func (f *fakeBlackouts) GetBlackoutByID(_ context.Context, id uuid.UUID) (*entity.Blackout, error) {
	if f.created == nil || f.created.ID != id {
		return nil, nil
	}
	return f.created, nil
}

func (f *fakeBlackouts) DeleteBlackout(_ context.Context, _ uuid.UUID) error {
	f.created = nil
	return nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func newFixture() (*fakeRepo, *fakeBlackouts, *fakeEnqueuer, RestaurantServiceInterface) {
	restaurantID := uuid.MustParse("11111111-0000-0000-0000-000000000000")
	sectorID := uuid.MustParse("22222222-0000-0000-0000-000000000000")
	repo := &fakeRepo{
		restaurant: &entity.Restaurant{ID: restaurantID, Name: "Test", Timezone: "UTC"},
		sector:     &entity.Sector{ID: sectorID, RestaurantID: restaurantID, Name: "Main"},
	}
	blackouts := &fakeBlackouts{}
	tasks := &fakeEnqueuer{}
	return repo, blackouts, tasks, NewRestaurantService(repo, blackouts, tasks)
}

func TestCreateTableValidation(t *testing.T) {
	_, _, _, svc := newFixture()

	tests := []struct {
		name string
		req  dto.CreateTableRequest
		code errors.ErrorCode
	}{
		{
			name: "bad sector id",
			req:  dto.CreateTableRequest{SectorID: "nope", Label: "T1", MinCapacity: 2, MaxCapacity: 4},
			code: errors.ErrInvalidInput,
		},
		{
			name: "missing label",
			req:  dto.CreateTableRequest{SectorID: "22222222-0000-0000-0000-000000000000", MinCapacity: 2, MaxCapacity: 4},
			code: errors.ErrInvalidInput,
		},
		{
			name: "inverted capacity range",
			req:  dto.CreateTableRequest{SectorID: "22222222-0000-0000-0000-000000000000", Label: "T1", MinCapacity: 6, MaxCapacity: 4},
			code: errors.ErrInvalidInput,
		},
		{
			name: "unknown sector",
			req:  dto.CreateTableRequest{SectorID: "99999999-0000-0000-0000-000000000000", Label: "T1", MinCapacity: 2, MaxCapacity: 4},
			code: errors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, appErr := svc.CreateTable(context.Background(), &tt.req)
			if appErr == nil || appErr.Code != tt.code {
				t.Errorf("got %v, want %s", appErr, tt.code)
			}
		})
	}
}

func TestCreateTable(t *testing.T) {
	repo, _, _, svc := newFixture()

	resp, appErr := svc.CreateTable(context.Background(), &dto.CreateTableRequest{
		SectorID:    "22222222-0000-0000-0000-000000000000",
		Label:       "T7",
		MinCapacity: 2,
		MaxCapacity: 4,
	})
	if appErr != nil {
		t.Fatalf("create failed: %v", appErr)
	}
	if resp.Label != "T7" || resp.MinCapacity != 2 || resp.MaxCapacity != 4 {
		t.Errorf("response = %+v", resp)
	}
	if len(repo.tables) != 1 {
		t.Errorf("stored %d tables, want 1", len(repo.tables))
	}
}

func TestCreateBlackoutEnqueuesCancelTask(t *testing.T) {
	_, blackouts, tasks, svc := newFixture()

	resp, appErr := svc.CreateBlackout(context.Background(), &dto.CreateBlackoutRequest{
		RestaurantID: "11111111-0000-0000-0000-000000000000",
		SectorID:     "22222222-0000-0000-0000-000000000000",
		StartAt:      "2026-03-14T20:00:00Z",
		EndAt:        "2026-03-14T23:00:00Z",
		Reason:       "private event",
	})
	if appErr != nil {
		t.Fatalf("create blackout failed: %v", appErr)
	}
	if blackouts.created == nil {
		t.Fatal("blackout not stored")
	}
	if resp.SectorID != "22222222-0000-0000-0000-000000000000" {
		t.Errorf("sector = %s", resp.SectorID)
	}
	if len(tasks.tasks) != 1 {
		t.Fatalf("enqueued %d tasks, want 1", len(tasks.tasks))
	}
}

func TestCreateBlackoutRejectsInvertedInterval(t *testing.T) {
	_, _, tasks, svc := newFixture()

	_, appErr := svc.CreateBlackout(context.Background(), &dto.CreateBlackoutRequest{
		RestaurantID: "11111111-0000-0000-0000-000000000000",
		StartAt:      "2026-03-14T23:00:00Z",
		EndAt:        "2026-03-14T20:00:00Z",
	})
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("got %v, want invalid_input", appErr)
	}
	if len(tasks.tasks) != 0 {
		t.Error("no task should be enqueued for a rejected blackout")
	}
}

func TestDeleteBlackout(t *testing.T) {
	_, blackouts, _, svc := newFixture()

	if appErr := svc.DeleteBlackout(context.Background(), uuid.New()); appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Fatalf("unknown blackout: got %v, want not_found", appErr)
	}

	_, appErr := svc.CreateBlackout(context.Background(), &dto.CreateBlackoutRequest{
		RestaurantID: "11111111-0000-0000-0000-000000000000",
		StartAt:      "2026-03-14T20:00:00Z",
		EndAt:        "2026-03-14T23:00:00Z",
	})
	if appErr != nil {
		t.Fatal(appErr)
	}

	if appErr := svc.DeleteBlackout(context.Background(), blackouts.created.ID); appErr != nil {
		t.Fatalf("delete failed: %v", appErr)
	}
	if blackouts.created != nil {
		t.Error("blackout not deleted")
	}
}
