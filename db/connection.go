package db

import (
	"context"
	"sync"
	"time"

	"github.com/itzjapcee-code/mosquito-tracker/logging"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mode identifies which backend a connection resolved to.
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// Config carries everything needed to resolve a backend. An empty MongoURI
// skips the remote attempt entirely.
type Config struct {
	MongoURI          string
	MongoDBName       string
	TasksFile         string
	ContributionsFile string
}

const (
	defaultDBName      = "tracker_db"
	defaultTasksFile   = "tasks_db.json"
	defaultContribFile = "contributions_db.json"

	connectTimeout = 10 * time.Second
)

// Connection is the resolved backend for the lifetime of a process: either a
// live remote client or the pair of local files.
type Connection struct {
	Mode   Mode
	Store  Store
	client *mongo.Client
}

// Client returns the underlying remote client, nil in local mode. Kept so the
// bootstrap can disconnect on shutdown.
func (c *Connection) Client() *mongo.Client {
	return c.client
}

var (
	openOnce sync.Once
	shared   *Connection
)

// Open resolves the backend once per process and memoizes the result. Every
// later call returns the same connection without re-attempting the remote
// path; a process that fell back to local mode stays local until restart.
func Open(cfg Config) *Connection {
	openOnce.Do(func() {
		shared = NewConnection(cfg)
	})
	return shared
}

// NewConnection resolves a fresh backend from cfg. It tries the remote
// document database first and falls back to the local file store on any
// failure; the failure is logged but never surfaced to the caller, so the
// service always comes up with a working backend, possibly degraded.
func NewConnection(cfg Config) *Connection {
	if cfg.MongoURI == "" {
		logging.Logger.Warn("Event ID: DB_FALLBACK_LOCAL, Description: No remote database configured, using local file store. Unsafe for concurrent multi-user use.")
		return localConnection(cfg)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Logger.Warnf("Event ID: DB_CONNECTION_FAILED, Description: Remote connection failed, falling back to local file store: %v", err)
		return localConnection(cfg)
	}

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Warnf("Event ID: DB_PING_FAILED, Description: Remote ping failed, falling back to local file store: %v", err)
		_ = client.Disconnect(context.Background())
		return localConnection(cfg)
	}

	name := cfg.MongoDBName
	if name == "" {
		name = defaultDBName
	}

	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to remote database %s.", name)
	return &Connection{
		Mode:   ModeRemote,
		Store:  NewRemoteStore(client.Database(name)),
		client: client,
	}
}

func localConnection(cfg Config) *Connection {
	taskFile := cfg.TasksFile
	if taskFile == "" {
		taskFile = defaultTasksFile
	}
	contribFile := cfg.ContributionsFile
	if contribFile == "" {
		contribFile = defaultContribFile
	}
	return &Connection{
		Mode:  ModeLocal,
		Store: NewLocalStore(taskFile, contribFile),
	}
}
