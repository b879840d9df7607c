package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/plantfloor/tally/internal/domain/classification"
	"github.com/plantfloor/tally/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestClassificationRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertPlant(t, db, "plant1")

	repo := NewClassificationRepository(db)
	now := time.Now()
	min := 0.0
	max := 9.9
	heads := 10
	wc := &classification.WeightClassification{
		ID:             "wc1",
		PlantID:        "plant1",
		Classification: "Under 10",
		Category:       classification.CategoryDressed,
		MinWeight:      &min,
		MaxWeight:      &max,
		DefaultHeads:   &heads,
		Description:    "small birds",
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	require.NoError(t, repo.Create(ctx, wc))

	loaded, err := repo.Get(ctx, "wc1")
	require.NoError(t, err)
	require.Equal(t, wc.Classification, loaded.Classification)
	require.Equal(t, wc.Category, loaded.Category)
	require.NotNil(t, loaded.MinWeight)
	require.Equal(t, min, *loaded.MinWeight)
	require.NotNil(t, loaded.MaxWeight)
	require.Equal(t, max, *loaded.MaxWeight)
	require.NotNil(t, loaded.DefaultHeads)
	require.Equal(t, heads, *loaded.DefaultHeads)
}

func TestClassificationRepository_NullableBounds(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertPlant(t, db, "plant1")

	repo := NewClassificationRepository(db)
	wc := &classification.WeightClassification{
		ID:             "wc1",
		PlantID:        "plant1",
		Classification: "Feet",
		Category:       classification.CategoryByproduct,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	require.NoError(t, repo.Create(ctx, wc))

	loaded, err := repo.Get(ctx, "wc1")
	require.NoError(t, err)
	require.Nil(t, loaded.MinWeight)
	require.Nil(t, loaded.MaxWeight)
	require.Nil(t, loaded.DefaultHeads)
	require.True(t, loaded.IsCatchAll())
}

func TestClassificationRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewClassificationRepository(db)

	_, err := repo.Get(context.Background(), "missing")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestClassificationRepository_ListByPlantOrder(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertPlant(t, db, "plant1")
	insertPlant(t, db, "plant2")

	repo := NewClassificationRepository(db)
	base := time.Now()
	for i, id := range []string{"wc1", "wc2", "wc3"} {
		wc := &classification.WeightClassification{
			ID:             id,
			PlantID:        "plant1",
			Classification: "Class " + id,
			Category:       classification.CategoryDressed,
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
			UpdatedAt:      base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Create(ctx, wc))
	}
	other := &classification.WeightClassification{
		ID:             "wc4",
		PlantID:        "plant2",
		Classification: "Other plant",
		Category:       classification.CategoryDressed,
		CreatedAt:      base,
		UpdatedAt:      base,
	}
	require.NoError(t, repo.Create(ctx, other))

	list, err := repo.ListByPlant(ctx, "plant1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "wc1", list[0].ID)
	require.Equal(t, "wc2", list[1].ID)
	require.Equal(t, "wc3", list[2].ID)
}

func TestClassificationRepository_UpdateDelete(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertPlant(t, db, "plant1")

	repo := NewClassificationRepository(db)
	wc := &classification.WeightClassification{
		ID:             "wc1",
		PlantID:        "plant1",
		Classification: "Under 10",
		Category:       classification.CategoryDressed,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	require.NoError(t, repo.Create(ctx, wc))

	wc.Classification = "Under 12"
	min := 1.5
	wc.MinWeight = &min
	wc.UpdatedAt = time.Now()
	require.NoError(t, repo.Update(ctx, wc))

	loaded, err := repo.Get(ctx, "wc1")
	require.NoError(t, err)
	require.Equal(t, "Under 12", loaded.Classification)
	require.NotNil(t, loaded.MinWeight)

	require.NoError(t, repo.Delete(ctx, "wc1"))
	require.Equal(t, repository.ErrNotFound, repo.Delete(ctx, "wc1"))
}
