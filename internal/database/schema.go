package database

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
id INTEGER PRIMARY KEY AUTOINCREMENT,
username TEXT NOT NULL UNIQUE,
password_hash TEXT NOT NULL,
created_at DATETIME NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS photos (
id INTEGER PRIMARY KEY AUTOINCREMENT,
filename TEXT NOT NULL UNIQUE,
caption TEXT,
date_uploaded DATETIME NOT NULL,
is_favorite INTEGER NOT NULL DEFAULT 0,
uploaded_by TEXT NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_photos_date_uploaded ON photos(date_uploaded);`,
	`CREATE TABLE IF NOT EXISTS tbl_log (
id INTEGER PRIMARY KEY AUTOINCREMENT,
logged_at DATETIME NOT NULL,
severity TEXT NOT NULL,
message TEXT NOT NULL,
fields TEXT -- Store additional zap fields as JSON string
);`,
}

type oracleTable struct {
	name string // as stored in user_tables
	ddl  []string
}

var oracleSchema = []oracleTable{
	{name: "USERS", ddl: []string{
		`CREATE TABLE users (
id NUMBER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
username VARCHAR2(80) NOT NULL UNIQUE,
password_hash VARCHAR2(255) NOT NULL,
created_at TIMESTAMP NOT NULL
)`,
	}},
	{name: "PHOTOS", ddl: []string{
		`CREATE TABLE photos (
id NUMBER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
filename VARCHAR2(255) NOT NULL UNIQUE,
caption CLOB,
date_uploaded TIMESTAMP NOT NULL,
is_favorite NUMBER(1) DEFAULT 0 NOT NULL,
uploaded_by VARCHAR2(80) NOT NULL
)`,
		`CREATE INDEX idx_photos_date_uploaded ON photos(date_uploaded)`,
	}},
	{name: "TBL_LOG", ddl: []string{
		`CREATE TABLE tbl_log (
id NUMBER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
logged_at TIMESTAMP NOT NULL,
severity VARCHAR2(16) NOT NULL,
message VARCHAR2(4000) NOT NULL,
fields CLOB
)`,
	}},
}
