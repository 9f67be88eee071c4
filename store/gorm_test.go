package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"budgetbook/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewGormStore(gormDB), mock
}

var transactionColumns = []string{"id", "name", "title_c", "amount_c", "type_c", "category_c", "description_c", "date_c", "created_at_c"}

func TestGormStore_FetchAllExpandsCategory(t *testing.T) {
	s, mock := setupMockStore(t)
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .* FROM `transaction_c` ORDER BY id").
		WillReturnRows(sqlmock.NewRows(transactionColumns).
			AddRow(1, "Lunch", "Lunch", "45.50", "expense", 3, "noodles", date, date).
			AddRow(2, "Taxi", "Taxi", "20.00", "expense", 9, "airport", date, nil))
	mock.ExpectQuery("SELECT .* FROM `category_c` WHERE id IN").
		WithArgs(3, 9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "name_c", "type_c", "color_c", "is_default_c"}).
			AddRow(3, "Food", "Food", "expense", "#ef4444", true))

	records, err := s.Table(TableTransaction).FetchAll(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, map[string]any{"Id": 3, "Name": "Food"}, records[0]["category_c"])
	assert.Equal(t, "2024-03-15", records[0]["date_c"])
	assert.True(t, decimal.RequireFromString("45.5").Equal(records[0]["amount_c"].(decimal.Decimal)))
	// 类别已不存在
	assert.Equal(t, map[string]any{"Id": 9}, records[1]["category_c"])
	assert.Nil(t, records[1]["created_at_c"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_FetchByIDNotFound(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectQuery("SELECT .* FROM `goal_c`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.Table(TableGoal).FetchByID(context.Background(), 5, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_FetchByIDQueryError(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectQuery("SELECT .* FROM `goal_c`").
		WillReturnError(errors.New("connection refused"))

	_, err := s.Table(TableGoal).FetchByID(context.Background(), 5, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGormStore_Create(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `category_c`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	resp, err := s.Table(TableCategory).Create(context.Background(), []Record{
		{"Name": "Travel", "name_c": "Travel", "type_c": "expense", "color_c": "#123456", "is_default_c": false},
	})
	require.NoError(t, err)
	_, failed := resp.Failure()
	require.False(t, failed)
	assert.Equal(t, 7, resp.Results[0].ID)
	assert.Equal(t, "Travel", resp.Results[0].Data["name_c"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_CreatePerRecordFailure(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `goal_c`").
		WillReturnError(errors.New("Duplicate entry"))
	mock.ExpectRollback()

	resp, err := s.Table(TableGoal).Create(context.Background(), []Record{{"name_c": "Trip"}})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	msg, failed := resp.Failure()
	assert.True(t, failed)
	assert.Contains(t, msg, "Duplicate entry")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_UpdateMissingRecord(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectQuery("SELECT .* FROM `budget_c`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	resp, err := s.Table(TableBudget).Update(context.Background(), []Record{{"Id": 3, "spent_c": "10"}})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.False(t, resp.Results[0].Success)
	assert.Equal(t, MsgRecordNotExist, resp.Results[0].Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Update(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectQuery("SELECT .* FROM `profiles_c`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "name_c", "avatar_c", "website_c", "bio_c", "email_id_c"}).
			AddRow(42, "Ada", "Ada", "", "", "", ""))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `profiles_c` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp, err := s.Table(TableProfile).Update(context.Background(), []Record{{"Id": 42, "email_id_c": "ada@example.com"}})
	require.NoError(t, err)
	require.True(t, resp.Results[0].Success)
	assert.Equal(t, "ada@example.com", resp.Results[0].Data["email_id_c"])
	assert.Equal(t, "Ada", resp.Results[0].Data["name_c"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Delete(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `transaction_c`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `transaction_c`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	resp, err := s.Table(TableTransaction).Delete(context.Background(), []int{1, 2})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.True(t, resp.Results[0].Success)
	assert.False(t, resp.Results[1].Success)
	assert.Equal(t, MsgRecordNotExist, resp.Results[1].Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_EmptyBatchAndUnknownTable(t *testing.T) {
	s, _ := setupMockStore(t)

	resp, err := s.Table(TableBudget).Delete(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, resp.Success)

	resp, err = s.Table("nope").Create(context.Background(), []Record{{}})
	require.NoError(t, err)
	assert.False(t, resp.Success)
}

func TestGormStore_CreateKeepsRecordWhenExpandFails(t *testing.T) {
	s, mock := setupMockStore(t)

	var buf bytes.Buffer
	ctx := logger.WithContext(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transaction_c`").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT .* FROM `category_c` WHERE id IN").
		WillReturnError(errors.New("connection reset"))

	resp, err := s.Table(TableTransaction).Create(ctx, []Record{
		{"title_c": "Lunch", "amount_c": "45.50", "type_c": "expense", "category_c": 3, "date_c": "2024-03-15"},
	})
	require.NoError(t, err)
	_, failed := resp.Failure()
	require.False(t, failed)
	assert.Equal(t, 11, resp.Results[0].ID)
	// 未展开，仍为类别 Id
	assert.Equal(t, 3, resp.Results[0].Data["category_c"])

	assert.Contains(t, buf.String(), "展开类别引用失败")
	assert.Contains(t, buf.String(), "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}
