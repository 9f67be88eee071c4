package database

import (
	"fmt"
	"log/slog"
	"time"

	"budgetbook/config"
	"budgetbook/models"
	"budgetbook/store"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialector 按驱动构建 gorm 方言
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=UTC",
			cfg.Username,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
		)
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.Host,
			cfg.Port,
			cfg.Username,
			cfg.Password,
			cfg.DBName,
			cfg.SSLMode,
		)
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

// Init 初始化存储，memory 驱动不连接数据库
func Init(cfg *config.Config) (store.Store, error) {
	if cfg.Database.Driver == config.DriverMemory {
		slog.Info("使用内存存储，重启后数据丢失")
		return store.NewMemoryStore(), nil
	}

	dialector, err := Dialector(cfg.Database)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if cfg.Server.Mode == "debug" {
		level = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Database.Driver == config.DriverSQLite {
		// sqlite 单写者
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)  // 最大空闲连接数
		sqlDB.SetMaxOpenConns(100) // 最大打开连接数
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	slog.Info("数据库初始化成功", "driver", cfg.Database.Driver, "target", cfg.DatabaseTarget())
	return store.NewGormStore(db), nil
}

// Migrate 自动迁移全部数据表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.CategoryRow{},
		&models.TransactionRow{},
		&models.BudgetRow{},
		&models.GoalRow{},
		&models.ProfileRow{},
	); err != nil {
		return fmt.Errorf("迁移数据表失败: %w", err)
	}
	return nil
}
