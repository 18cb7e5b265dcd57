package project_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/ragment/ragment-api/api/config"
	database "github.com/ragment/ragment-api/api/database"
	"github.com/ragment/ragment-api/api/services/project"
)

const testOwner = "project-test-user"

func TestMain(m *testing.M) {
	if os.Getenv("DATABASE_URL") == "" {
		fmt.Println("DATABASE_URL not set; skipping project store integration tests")
		return
	}
	// Prevent tests from running against production database
	config.CheckNotProdDB()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	if err := database.Initialize(cfg.DatabaseURL); err != nil {
		panic(err)
	}
	if err := database.Migrate(); err != nil {
		panic(err)
	}
	_, _ = database.GetDB().Exec("DELETE FROM projects WHERE clerk_user_id = $1", testOwner)
	m.Run()
}

func TestProjectLifecycle(t *testing.T) {
	defer database.GetDB().Exec("DELETE FROM projects WHERE clerk_user_id = $1", testOwner)

	store := project.NewStore(database.GetDB())
	ctx := context.Background()

	p, err := store.Create(ctx, testOwner, "rag pipeline", "embedding experiments")
	require.NoError(t, err)
	assert.Equal(t, "rag pipeline", p.Name)

	// Files are scoped to the project and reachable only by its owner.
	f, err := store.CreateFile(ctx, testOwner, p.ID, "main.py", "print('hi')")
	require.NoError(t, err)

	files, err := store.ListFiles(ctx, testOwner, p.ID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "main.py", files[0].Filename)

	// A different caller sees neither the project nor its files.
	_, err = store.Get(ctx, "someone-else", p.ID)
	assert.ErrorIs(t, err, project.ErrNotFound)
	_, err = store.ListFiles(ctx, "someone-else", p.ID)
	assert.ErrorIs(t, err, project.ErrNotFound)

	updated, err := store.Update(ctx, testOwner, p.ID, "rag pipeline v2", "")
	require.NoError(t, err)
	assert.Equal(t, "rag pipeline v2", updated.Name)

	require.NoError(t, store.DeleteFile(ctx, testOwner, p.ID, f.ID))
	require.NoError(t, store.Delete(ctx, testOwner, p.ID))
	_, err = store.Get(ctx, testOwner, p.ID)
	assert.ErrorIs(t, err, project.ErrNotFound)
}
