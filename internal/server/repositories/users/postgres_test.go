package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/gmpi-project/gmpi/internal/common"
	"github.com/gmpi-project/gmpi/internal/server/models"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

var userColumns = []string{"id", "email", "password_hash", "name", "role", "active", "registration_date"}

func TestPostgres_Create(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	u := &models.User{
		ID: "u1", Email: "a@b.edu", PasswordHash: "h", Name: "A",
		Role: models.RoleAuthority, Active: true, RegistrationDate: time.Now(),
	}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Email, u.PasswordHash, u.Name, "authority", true, u.RegistrationDate).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresRepository(db)
	_, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestPostgres_GetByEmail_DerivesPermissions(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	reg := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(userColumns).
		AddRow("u1", "a@b.edu", "h", "A", "administrator", true, reg)

	mock.ExpectQuery("SELECT id, email, password_hash, name, role, active, registration_date FROM users").
		WithArgs("a@b.edu").
		WillReturnRows(rows)

	repo := NewPostgresRepository(db)
	u, err := repo.GetByEmail(context.Background(), "a@b.edu")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if u.Role != models.RoleAdministrator {
		t.Fatalf("role = %q", u.Role)
	}
	if !models.HasPermission(u.Permissions, models.PermissionManageUsers) {
		t.Fatalf("administrator must carry manage_users, got %v", u.Permissions)
	}
}

func TestPostgres_GetByEmail_NotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, email").
		WithArgs("nobody@x.edu").
		WillReturnError(sql.ErrNoRows)

	repo := NewPostgresRepository(db)
	_, err := repo.GetByEmail(context.Background(), "nobody@x.edu")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPostgres_List(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	reg := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(userColumns).
		AddRow("u1", "a@b.edu", "h", "A", "administrator", true, reg).
		AddRow("u2", "c@d.edu", "h", "C", "janitor", true, reg)

	mock.ExpectQuery("SELECT id, email").WillReturnRows(rows)

	repo := NewPostgresRepository(db)
	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d", len(list))
	}
	// Unknown role collapses to the minimal read-only set.
	if len(list[1].Permissions) != 1 || list[1].Permissions[0] != models.PermissionRead {
		t.Fatalf("unknown role permissions = %v", list[1].Permissions)
	}
}

func TestPostgres_Update_NotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectExec("UPDATE users SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgresRepository(db)
	err := repo.Update(context.Background(), &models.User{ID: "ghost"})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPostgres_Delete(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM users").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresRepository(db)
	if err := repo.Delete(context.Background(), "u1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}
