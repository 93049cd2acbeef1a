package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	surrealdb "github.com/surrealdb/surrealdb.go"

	"github.com/NEXN0/cirrus/internal/blob"
	"github.com/NEXN0/cirrus/internal/config"
	"github.com/NEXN0/cirrus/internal/constants"
	"github.com/NEXN0/cirrus/internal/editor"
	"github.com/NEXN0/cirrus/internal/importer"
	"github.com/NEXN0/cirrus/internal/logger"
	"github.com/NEXN0/cirrus/internal/note"
	"github.com/NEXN0/cirrus/internal/repo"
	"github.com/NEXN0/cirrus/internal/session"
)

// State carries everything a command needs: the config, the database
// connection, and the services built on top of it.
type State struct {
	Config   *config.Config
	DB       *surrealdb.DB
	Session  *session.Session
	Repo     *repo.Repository
	Editor   *editor.Editor
	Importer *importer.Importer
	Uploader *blob.Store
	Exports  string
	Logger   zerolog.Logger
	Home     string
}

func NewState() (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	log, err := logger.New().FromPath(cfg.LogFile).Make()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	ctx := context.Background()
	db, err := surrealdb.FromEndpointURLString(ctx, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Endpoint, err)
	}
	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to select %s/%s: %w", cfg.Namespace, cfg.Database, err)
	}

	sess := session.New(db, cfg.Namespace, cfg.Database, cfg.Access, log)
	r := repo.New(repo.NewSurrealSource(db), constants.NotesTable, log)
	ed := editor.New(r, sess, log)

	var uploader *blob.Store
	var up uploaderFor = missingUploader{}
	if cfg.Blob.Bucket != "" {
		uploader, err = blob.NewFromConfig(ctx, cfg.Blob, log)
		if err != nil {
			return nil, err
		}
		up = uploader
	}
	imp := importer.New(r, up, log)

	s := &State{
		Config:   cfg,
		DB:       db,
		Session:  sess,
		Repo:     r,
		Editor:   ed,
		Importer: imp,
		Uploader: uploader,
		Exports:  cfg.ExportDir,
		Logger:   log,
		Home:     home,
	}

	// Keep the persisted token in step with the live session so the next
	// invocation resumes where this one left off.
	sess.OnChange(func(id *session.Identity) {
		if err := cfg.ChangeToken(sess.Token()); err != nil {
			log.Warn().Err(err).Msg("failed to persist session token")
		}
	})

	if cfg.Token != "" {
		if _, err := sess.Resume(ctx, cfg.Token); err != nil {
			// A stale token just means starting signed out.
			log.Debug().Err(err).Msg("stored session token rejected")
		}
	}

	return s, nil
}

// WatchNotes follows the identity across sign-ins: each signed-in identity
// gets a live subscription, and signing out tears it down and pushes an
// empty set.
func (s *State) WatchNotes(ctx context.Context, push func([]note.Note)) {
	s.Session.OnChange(func(id *session.Identity) {
		if id == nil {
			if err := s.Repo.Unsubscribe(ctx); err != nil {
				s.Logger.Warn().Err(err).Msg("failed to stop live feed")
			}
			push(nil)
			return
		}
		onErr := func(err error) {
			s.Logger.Error().Err(err).Msg("live feed lost")
		}
		if err := s.Repo.Subscribe(ctx, id.ID, push, onErr); err != nil {
			s.Logger.Error().Err(err).Msg("failed to start live feed")
			push(nil)
		}
	})
}

type uploaderFor interface {
	Upload(ctx context.Context, ownerID, fileName, contentType string, body io.Reader) (string, error)
}

type missingUploader struct{}

func (missingUploader) Upload(context.Context, string, string, string, io.Reader) (string, error) {
	return "", errors.New("blob storage is not configured; set blob.bucket in the config")
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	viper.AddConfigPath(home + constants.ConfigDir)
	viper.SetConfigName(constants.ConfigFile)
	viper.SetConfigType(constants.ConfigFileType)
	viper.SetEnvPrefix("CIRRUS")
	viper.AutomaticEnv()
	viper.ReadInConfig()

	err := config.EnsureConfigExists(home)
	if err != nil {
		return nil, err
	}

	return config.Load(home)
}

// Close tears down the live subscription and the database connection.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	ctx := context.Background()
	var errs []error
	if s.Repo != nil {
		if err := s.Repo.Unsubscribe(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if s.DB != nil {
		if err := s.DB.Close(ctx); err != nil {
			errs = append(errs, err)
		}
		s.DB = nil
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
