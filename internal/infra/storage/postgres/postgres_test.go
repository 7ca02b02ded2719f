package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
	"github.com/augleao/frontend-dev-sub000/internal/infra/storage"
)

func TestValidateTableName(t *testing.T) {
	valid := []string{"serventia", "public.serventia", "db_yq0x.public.serventia"}
	for _, name := range valid {
		if err := ValidateTableName(name); err != nil {
			t.Errorf("ValidateTableName(%q) = %v", name, err)
		}
	}

	invalid := []string{"", "a.b.c.d", "serventia; DROP TABLE x", "public.\"serventia\"", "1abc", "a..b"}
	for _, name := range invalid {
		if err := ValidateTableName(name); err == nil {
			t.Errorf("ValidateTableName(%q) should fail", name)
		}
	}
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("DATABASE_TEST_URL")
	if url == "" {
		t.Skip("Skipping Postgres test. Set DATABASE_TEST_URL to run.")
	}

	ctx := context.Background()
	db, err := NewDB(ctx, Config{URL: url})
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestOfficeRepo_Live(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	repo, err := NewOfficeRepo(db, "public.serventia")
	if err != nil {
		t.Fatalf("NewOfficeRepo failed: %v", err)
	}

	office := &domain.Office{
		Code:         "99.999-9",
		Name:         "Teste IA",
		PrimaryModel: "gemini-2.0-flash",
		Fallback1:    "gemini-1.5-pro",
	}
	if err := repo.UpsertAgents(ctx, office); err != nil {
		t.Fatalf("UpsertAgents failed: %v", err)
	}
	t.Cleanup(func() {
		_, _ = db.ExecContext(ctx, `DELETE FROM public.serventia WHERE nome_abreviado = 'Teste IA'`)
	})

	got, err := repo.FindByCode(ctx, "999999")
	if err != nil {
		t.Fatalf("FindByCode failed: %v", err)
	}
	if got.PrimaryModel != "gemini-2.0-flash" || got.Fallback2 != "" {
		t.Errorf("unexpected office %+v", got)
	}

	if _, err := repo.FindByName(ctx, "teste ia"); err != nil {
		t.Errorf("FindByName failed: %v", err)
	}
	if _, err := repo.FindByName(ctx, "nao existe"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOfficeRepo_MissingTable_Live(t *testing.T) {
	db := openTestDB(t)

	repo, err := NewOfficeRepo(db, "nao_existe_schema.serventia")
	if err != nil {
		t.Fatalf("NewOfficeRepo failed: %v", err)
	}
	_, err = repo.FindByName(context.Background(), "x")
	if !errors.Is(err, storage.ErrUndefinedRelation) {
		t.Errorf("expected ErrUndefinedRelation, got %v", err)
	}
}

func TestPromptRepo_Live(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewPromptRepo(db)

	tpl := &domain.PromptTemplate{Key: "Teste_Live", Body: "Olá {{nome}}"}
	if err := repo.Upsert(ctx, tpl); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	t.Cleanup(func() {
		_, _ = db.ExecContext(ctx, `DELETE FROM public.ia_prompts WHERE indexador = 'teste_live'`)
	})

	got, err := repo.Get(ctx, "TESTE_LIVE")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Body != "Olá {{nome}}" {
		t.Errorf("unexpected body %q", got.Body)
	}
}
