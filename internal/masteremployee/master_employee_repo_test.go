package masteremployee_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/Jstali/employee-onboarding-sub000/internal/masteremployee"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"asha":    "asha",
		"100%":    `100\%`,
		"a_b":     `a\_b`,
		`back\sl`: `back\\sl`,
		`%_\`:     `\%\_\\`,
		"":        "",
	}
	for in, want := range tests {
		assert.Equal(t, want, masteremployee.EscapeLike(in), in)
	}
}

func TestMasterEmployeeRepository_SearchEscapesWildcards(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	like := `%50\%\_off%`
	mock.ExpectQuery(regexp.QuoteMeta(`name ILIKE $2 ESCAPE '\'`)).
		WithArgs(sqlmock.AnyArg(), like, like, like, like).
		WillReturnRows(sqlmock.NewRows([]string{"id", "employee_id", "name"}))

	recs, err := masteremployee.NewRepository(gdb).Search(context.Background(), "50%_off", 10)

	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
