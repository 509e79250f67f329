package emulator

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"irconsole"
)

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLStore(db), mock
}

func TestSQLStore_List(t *testing.T) {
	t.Parallel()
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"idx", "name", "protocol", "value", "bits"}).
		AddRow(1, "TV Power", "NEC", "A1B2C3D4", 32).
		AddRow(2, "", "NEC", "20DF10EF", 32)
	mock.ExpectQuery(regexp.QuoteMeta(listCodesSQL)).WillReturnRows(rows)

	got, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d codes, want 2", len(got))
	}
	if got[0].Index != 1 || got[0].Name != "TV Power" || got[0].Value != "A1B2C3D4" {
		t.Errorf("unexpected first code: %+v", got[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLStore_List_QueryError(t *testing.T) {
	t.Parallel()
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(listCodesSQL)).WillReturnError(errors.New("db gone"))

	if _, err := store.List(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestSQLStore_Insert_ReturnsIndex(t *testing.T) {
	t.Parallel()
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(insertCodeSQL)).
		WithArgs("TV Power", "NEC", "A1B2C3D4", 32).
		WillReturnResult(sqlmock.NewResult(7, 1))

	idx, err := store.Insert(context.Background(), irconsole.SavedCommand{
		Name: "TV Power", Protocol: "NEC", Value: "A1B2C3D4", Bits: 32,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if idx != 7 {
		t.Errorf("index = %d, want 7", idx)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLStore_Insert_DefaultsBits(t *testing.T) {
	t.Parallel()
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(insertCodeSQL)).
		WithArgs("", "NEC", "FF00FF00", irconsole.DefaultBits).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if _, err := store.Insert(context.Background(), irconsole.SavedCommand{
		Protocol: "NEC", Value: "FF00FF00",
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLStore_Rename(t *testing.T) {
	t.Parallel()
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(renameCodeSQL)).
		WithArgs("Living room TV", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := store.Rename(context.Background(), 3, "Living room TV")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if !ok {
		t.Error("Rename reported missing row, want found")
	}
}

func TestSQLStore_Delete_Missing(t *testing.T) {
	t.Parallel()
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(deleteCodeSQL)).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := store.Delete(context.Background(), 42)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok {
		t.Error("Delete reported found for missing row")
	}
}
