package roster

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/m-mizutani/goerr/v2"
	"github.com/siren-lab/siren/pkg/domain/interfaces"
	"github.com/siren-lab/siren/pkg/domain/model/errs"
	"github.com/siren-lab/siren/pkg/utils/logging"
	"github.com/siren-lab/siren/pkg/utils/safe"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Contact is one duty-roster entry.
type Contact struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Service is the duty-roster store on SQLite. The escalation
// scheduler re-queries it at each tier, so the on-call list can change
// between the SMS and the voice call of the same alert.
type Service struct {
	db *sql.DB
	eb *goerr.Builder
}

var _ interfaces.RosterClient = &Service{}

func New(ctx context.Context, path string) (*Service, error) {
	eb := goerr.NewBuilder(goerr.V("path", path), goerr.T(errs.TagDatabase))

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eb.Wrap(err, "failed to open roster database")
	}

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		safe.Close(ctx, db)
		return nil, eb.Wrap(err, "failed to set busy_timeout")
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		safe.Close(ctx, db)
		return nil, eb.Wrap(err, "failed to enable WAL mode")
	}

	if err := runMigrations(ctx, db); err != nil {
		safe.Close(ctx, db)
		return nil, eb.Wrap(err, "failed to run roster migrations")
	}

	return &Service{db: db, eb: eb}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	migrationFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return goerr.Wrap(err, "failed to open embedded migrations")
	}

	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return goerr.Wrap(err, "failed to create migration source driver")
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{
		MigrationsTable: "schema_migrations",
	})
	if err != nil {
		return goerr.Wrap(err, "failed to create migration database driver")
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return goerr.Wrap(err, "failed to create migrate instance")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return goerr.Wrap(err, "failed to apply migrations")
	}

	logging.From(ctx).Debug("roster migrations applied")
	return nil
}

func (x *Service) Close(ctx context.Context) {
	safe.Close(ctx, x.db)
}

// ListOnCallContacts returns the phone numbers of active duty
// contacts. An empty list is a valid result, not an error.
func (x *Service) ListOnCallContacts(ctx context.Context) ([]string, error) {
	rows, err := x.db.QueryContext(ctx,
		"SELECT phone_number FROM duty_contacts WHERE active = 1 ORDER BY id")
	if err != nil {
		return nil, x.eb.Wrap(err, "failed to query on-call contacts")
	}
	defer safe.Close(ctx, rows)

	var phones []string
	for rows.Next() {
		var phone string
		if err := rows.Scan(&phone); err != nil {
			return nil, x.eb.Wrap(err, "failed to scan contact row")
		}
		phones = append(phones, phone)
	}
	if err := rows.Err(); err != nil {
		return nil, x.eb.Wrap(err, "failed to iterate contact rows")
	}

	return phones, nil
}

func (x *Service) AddContact(ctx context.Context, name, phone string) error {
	if phone == "" {
		return goerr.New("phone number is required", goerr.T(errs.TagValidation))
	}

	if _, err := x.db.ExecContext(ctx,
		"INSERT INTO duty_contacts (name, phone_number) VALUES (?, ?)",
		name, phone); err != nil {
		return x.eb.Wrap(err, "failed to insert duty contact",
			goerr.V("phone", phone))
	}

	return nil
}

func (x *Service) RemoveContact(ctx context.Context, phone string) error {
	result, err := x.db.ExecContext(ctx,
		"DELETE FROM duty_contacts WHERE phone_number = ?", phone)
	if err != nil {
		return x.eb.Wrap(err, "failed to delete duty contact",
			goerr.V("phone", phone))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return x.eb.Wrap(err, "failed to check deleted rows")
	}
	if affected == 0 {
		return goerr.New("duty contact not found",
			goerr.T(errs.TagNotFound),
			goerr.V("phone", phone))
	}

	return nil
}

func (x *Service) ListContacts(ctx context.Context) ([]Contact, error) {
	rows, err := x.db.QueryContext(ctx,
		"SELECT id, name, phone_number, active, created_at FROM duty_contacts ORDER BY id")
	if err != nil {
		return nil, x.eb.Wrap(err, "failed to query duty contacts")
	}
	defer safe.Close(ctx, rows)

	var contacts []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.PhoneNumber, &c.Active, &c.CreatedAt); err != nil {
			return nil, x.eb.Wrap(err, "failed to scan contact row")
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, x.eb.Wrap(err, "failed to iterate contact rows")
	}

	return contacts, nil
}
