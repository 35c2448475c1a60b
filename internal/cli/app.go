package cli

import (
	"fmt"

	"songs-downloader/internal/api"
	"songs-downloader/internal/config"
	"songs-downloader/internal/manager"
	"songs-downloader/internal/poller"
	"songs-downloader/internal/registry"
	"songs-downloader/internal/store"
)

// app bundles the wired-up client pieces for one command invocation. The
// state lock is held for the lifetime of the command so two instances cannot
// do write-through persistence over each other.
type app struct {
	cfg     config.Config
	store   *store.Store
	manager *manager.Manager
	lock    store.StateLock
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	lock, err := store.AcquireStateLock(cfg.StateDir)
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(api.Options{
		BaseURL: cfg.APIURL,
		Timeout: cfg.RequestTimeout,
	})
	if err != nil {
		_ = lock.Release()
		return nil, err
	}

	st := store.New(cfg.StateDir)
	reg := registry.New(st)
	p := poller.New(reg, cfg.PollInterval)
	m := manager.New(client, reg, p)
	m.SetSearchPolicy(cfg.SearchInterval, cfg.SearchAttempts)

	return &app{cfg: cfg, store: st, manager: m, lock: lock}, nil
}

func (a *app) Close() {
	if err := a.lock.Release(); err != nil {
		fmt.Println("warning:", err)
	}
}
