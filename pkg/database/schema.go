package database

// Tables are created with explicit DDL rather than gorm's AutoMigrate so the
// foreign keys exist; sqlite cannot add them after the fact.
const (
	createUsers = `CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    email TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    avatar_path TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

	createVideos = `CREATE TABLE IF NOT EXISTS videos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    filename TEXT NOT NULL,
    original_name TEXT NOT NULL,
    file_path TEXT NOT NULL,
    thumbnail_path TEXT,
    duration INTEGER,
    file_size INTEGER,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (user_id) REFERENCES users (id)
);`

	createStreams = `CREATE TABLE IF NOT EXISTS streams (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    title TEXT NOT NULL,
    platform TEXT NOT NULL,
    stream_key TEXT NOT NULL,
    video_id INTEGER,
    status TEXT DEFAULT 'pending',
    scheduled_time TIMESTAMP,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (user_id) REFERENCES users (id),
    FOREIGN KEY (video_id) REFERENCES videos (id) ON DELETE SET NULL
);`
)

const (
	idxVideosUser  = `CREATE INDEX IF NOT EXISTS idx_videos_user ON videos(user_id, created_at);`
	idxStreamsUser = `CREATE INDEX IF NOT EXISTS idx_streams_user ON streams(user_id, created_at);`
)

// schemaDDL lists every statement in dependency order.
var schemaDDL = []string{
	createUsers,
	createVideos,
	createStreams,
	idxVideosUser,
	idxStreamsUser,
}
