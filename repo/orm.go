// Package repo ignore_security_alert_file SQL_INJECTION
package repo

import (
	"context"
	"errors"
	"reflect"
	"time"

	"mailer/config"
	"mailer/entity"
	"mailer/pkg/errutil"
	"mailer/pkg/goutil"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

type txKey struct{}

type TxService interface {
	RunTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type BaseRepo interface {
	TxService

	Create(ctx context.Context, model interface{}) error
	CreateMany(ctx context.Context, data interface{}, batchSize int) error
	// CreateIgnoreConflict inserts model unless a unique key already exists.
	// It reports whether a row was written.
	CreateIgnoreConflict(ctx context.Context, model interface{}) (bool, error)
	Get(ctx context.Context, model interface{}, f *Filter) error
	GetMany(ctx context.Context, model interface{}, f *Filter) ([]interface{}, *entity.Pagination, error)
	Count(ctx context.Context, model interface{}, f *Filter) (uint64, error)
	Delete(ctx context.Context, model interface{}, f *Filter) (int64, error)
	Update(ctx context.Context, model interface{}) error
	UpdateColumns(ctx context.Context, model interface{}, f *Filter, values map[string]interface{}) (int64, error)
	Raw(ctx context.Context, dest interface{}, sql string, args ...interface{}) error
	Exec(ctx context.Context, sql string, args ...interface{}) (int64, error)
	Now(ctx context.Context) (time.Time, error)
	Close(ctx context.Context) error
}

type baseRepo struct {
	db *gorm.DB
}

func NewBaseRepo(ctx context.Context, dbCfg config.Database) (BaseRepo, error) {
	dialector, err := newDialector(dbCfg)
	if err != nil {
		return nil, err
	}

	var (
		db *gorm.DB
		b  = backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), dbCfg.ConnectRetries), ctx)
	)
	open := func() error {
		var err error
		db, err = gorm.Open(dialector, newGormConfig())
		if err != nil && db != nil {
			if sqlDB, e := db.DB(); e == nil {
				_ = sqlDB.Close()
			}
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Ctx(ctx).Warn().Msgf("connect database failed, retry in %v, err: %v", wait, err)
	}
	if err := backoff.RetryNotify(open, b, notify); err != nil {
		return nil, errutil.DatabaseError(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errutil.DatabaseError(err)
	}
	sqlDB.SetMaxOpenConns(dbCfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(dbCfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(dbCfg.ConnMaxLifetimeSeconds) * time.Second)

	return NewBaseRepoWithDB(db), nil
}

func NewBaseRepoWithDB(db *gorm.DB) BaseRepo {
	return &baseRepo{
		db: db,
	}
}

func newDialector(dbCfg config.Database) (gorm.Dialector, error) {
	switch dbCfg.Driver {
	case config.DriverPostgres:
		return postgres.Open(dbCfg.ToDSN()), nil
	case config.DriverMySQL:
		return mysql.Open(dbCfg.ToDSN()), nil
	default:
		return nil, ErrUnsupportedDriver
	}
}

func newGormConfig() *gorm.Config {
	logLevel := logger.Warn
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		logLevel = logger.Info
	}

	return &gorm.Config{
		SkipDefaultTransaction: true,
		Logger: logger.New(gormLogWriter{}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// gormLogWriter sends gorm's log lines to zerolog.
type gormLogWriter struct{}

func (gormLogWriter) Printf(format string, args ...interface{}) {
	log.Debug().Msgf(format, args...)
}

func (r *baseRepo) Create(ctx context.Context, data interface{}) error {
	return errutil.DatabaseError(r.getDb(ctx).Create(data).Error)
}

func (r *baseRepo) CreateMany(ctx context.Context, data interface{}, batchSize int) error {
	return errutil.DatabaseError(r.getDb(ctx).CreateInBatches(data, batchSize).Error)
}

func (r *baseRepo) CreateIgnoreConflict(ctx context.Context, data interface{}) (bool, error) {
	res := r.getDb(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(data)
	if res.Error != nil {
		return false, errutil.DatabaseError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *baseRepo) Count(ctx context.Context, model interface{}, f *Filter) (uint64, error) {
	var count int64
	if err := where(r.getDb(ctx).Model(model), f).Count(&count).Error; err != nil {
		return 0, errutil.DatabaseError(err)
	}
	return uint64(count), nil
}

func (r *baseRepo) Delete(ctx context.Context, model interface{}, f *Filter) (int64, error) {
	db := r.getDb(ctx)
	if len(f.GetConditions()) == 0 {
		db = db.Session(&gorm.Session{AllowGlobalUpdate: true})
	}

	res := where(db, f).Delete(model)
	if res.Error != nil {
		return 0, errutil.DatabaseError(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *baseRepo) Get(ctx context.Context, model interface{}, f *Filter) error {
	return errutil.DatabaseError(where(r.getDb(ctx).Model(model), f).First(model).Error)
}

func (r *baseRepo) GetMany(ctx context.Context, model interface{}, f *Filter) ([]interface{}, *entity.Pagination, error) {
	query := where(r.getDb(ctx).Model(model), f)

	var (
		pagination = f.GetPagination()
		limit      = pagination.GetLimit()
		page       = pagination.GetPage()
		count      int64
	)
	if page == 0 {
		page = 1
	}

	if limit > 0 {
		if err := query.Session(&gorm.Session{}).Count(&count).Error; err != nil {
			return nil, nil, errutil.DatabaseError(err)
		}
		query = query.Offset(int((page - 1) * limit)).Limit(int(limit + 1))
	}

	query = query.Order(f.GetOrder())

	var (
		modelElem = reflect.TypeOf(model).Elem()
		queryRes  = reflect.New(reflect.SliceOf(modelElem)).Interface()
	)
	if err := query.Find(queryRes).Error; err != nil {
		return nil, nil, errutil.DatabaseError(err)
	}

	var (
		resElem = reflect.ValueOf(queryRes).Elem()
		res     = make([]interface{}, resElem.Len())
	)
	for i := 0; i < resElem.Len(); i++ {
		res[i] = resElem.Index(i).Addr().Interface() // return addr
	}

	var hasNext bool
	if limit > 0 && len(res) > int(limit) {
		hasNext = true
		res = res[:limit]
	}
	if limit == 0 {
		count = int64(len(res))
	}

	return res, &entity.Pagination{
		Page:    goutil.Uint32(page),
		Limit:   pagination.Limit,
		HasNext: goutil.Bool(hasNext),
		Total:   &count,
	}, nil
}

func (r *baseRepo) Update(ctx context.Context, model interface{}) error {
	return errutil.DatabaseError(r.getDb(ctx).Updates(model).Error)
}

func (r *baseRepo) UpdateColumns(ctx context.Context, model interface{}, f *Filter, values map[string]interface{}) (int64, error) {
	res := where(r.getDb(ctx).Model(model), f).Updates(values)
	if res.Error != nil {
		return 0, errutil.DatabaseError(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *baseRepo) Raw(ctx context.Context, dest interface{}, sql string, args ...interface{}) error {
	return errutil.DatabaseError(r.getDb(ctx).Raw(sql, args...).Scan(dest).Error)
}

func (r *baseRepo) Exec(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	res := r.getDb(ctx).Exec(sql, args...)
	if res.Error != nil {
		return 0, errutil.DatabaseError(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *baseRepo) Now(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := r.getDb(ctx).Raw("SELECT CURRENT_TIMESTAMP").Row().Scan(&now); err != nil {
		return time.Time{}, errutil.DatabaseError(err)
	}
	return now, nil
}

func (r *baseRepo) RunTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.hasTx(ctx) {
		return fn(ctx)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ctxWithTx := context.WithValue(ctx, txKey{}, tx)
		if err := fn(ctxWithTx); err != nil {
			return err
		}
		return nil
	})

	return errutil.DatabaseError(err)
}

func (r *baseRepo) Close(_ context.Context) error {
	if r.db != nil {
		sqlDB, err := r.db.DB()
		if err != nil {
			return err
		}

		err = sqlDB.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *baseRepo) getDb(ctx context.Context) *gorm.DB {
	db, ok := ctx.Value(txKey{}).(*gorm.DB)
	if !ok {
		db = r.db
	}
	return db.WithContext(ctx)
}

func (r *baseRepo) hasTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok
}

func where(db *gorm.DB, f *Filter) *gorm.DB {
	sqlQuery, args := ToSqlWithArgs(f.GetConditions())
	if sqlQuery == "" {
		return db
	}
	return db.Where(sqlQuery, args...)
}
