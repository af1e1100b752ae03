package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"libreta/internal/config"
	"libreta/internal/domain/ledger"
	fbclient "libreta/internal/infrastructure/firebase"
	fsclient "libreta/internal/infrastructure/firestore"
	"libreta/internal/infrastructure/gcs"
	"libreta/internal/infrastructure/localstore"
	"libreta/internal/infrastructure/whatsapp"
	"libreta/internal/notify"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	Config *config.Config
	Log    zerolog.Logger

	Local      *localstore.Store
	Remote     *fsclient.Client
	Identity   *fbclient.Client
	Uploader   *gcs.Uploader
	Dispatcher *notify.Dispatcher

	Store *ledger.Store
}

// NewDependencies initializes all application dependencies. Cloud
// adapters (Firestore, Firebase Auth, Cloud Storage) are only created
// when configured; everything works offline without them.
func NewDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Dependencies, error) {
	d := &Dependencies{Config: cfg, Log: log}

	local, err := localstore.Open(cfg.LocalStore.Path)
	if err != nil {
		return nil, err
	}
	d.Local = local

	opts := ledger.Options{
		Local:        local,
		Logger:       log,
		Currency:     cfg.Currency,
		BusinessName: cfg.BusinessName,
	}

	if cfg.CloudEnabled() {
		remote, err := fsclient.NewClient(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile, log)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.Remote = remote
		opts.Remote = remote

		identity, err := fbclient.NewClient(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.Identity = identity
	}

	if cfg.Storage.Bucket != "" {
		uploader, err := gcs.NewUploader(ctx, cfg.Storage.Bucket, cfg.Storage.Folder, cfg.Firebase.CredentialsFile)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.Uploader = uploader
	}

	sender := whatsapp.NewSender(whatsapp.Config{
		AccessToken:   cfg.WhatsApp.AccessToken,
		PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
		BaseURL:       cfg.WhatsApp.BaseURL,
		Timeout:       cfg.WhatsApp.Timeout,
	}, log)

	if sender.Configured() {
		d.Dispatcher = notify.New(cfg.Dispatch.Workers, cfg.Dispatch.Delay, cfg.Dispatch.QueueSize, log)
		opts.Sender = sender
		opts.Dispatcher = d.Dispatcher
	}

	d.Store = ledger.NewStore(opts)
	if err := d.Store.Load(ctx); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// Close flushes pending writes and releases all resources.
func (d *Dependencies) Close() {
	if d.Store != nil {
		d.Store.Flush()
		d.Store.Close()
	}
	if d.Dispatcher != nil {
		d.Dispatcher.Shutdown(30 * time.Second)
	}
	if d.Uploader != nil {
		_ = d.Uploader.Close()
	}
	if d.Remote != nil {
		_ = d.Remote.Close()
	}
	if d.Local != nil {
		_ = d.Local.Close()
	}
}
