package mysql

const inquiryColumns = `full_name, email_address, contact_number, nationality, country,
  arrival_date, departure_date, no_of_nights, hotel_category, room_type, basis,
  no_of_pax, children, tour_type, transport, site_interests, other_service,
  special_arrangements, special_arrangements_date, arrival_flight, departure_flight`

const insertInquirySQL = `
INSERT INTO client_inquiry
  (` + inquiryColumns + `)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getInquirySQL = `
SELECT
  id, ` + inquiryColumns + `,
  created_at
FROM client_inquiry
WHERE id = ?
`

// -----------------------------------------------------------------------------
// SCHEMA
// -----------------------------------------------------------------------------

// JSON arrays live in JSON columns on MySQL and TEXT on SQLite; both hold the
// same encoded text.
var schemaMySQL = []string{`
CREATE TABLE IF NOT EXISTS client_inquiry (
  id                        BIGINT AUTO_INCREMENT PRIMARY KEY,
  full_name                 VARCHAR(255) NOT NULL,
  email_address             VARCHAR(255) NOT NULL,
  contact_number            VARCHAR(64)  NOT NULL,
  nationality               VARCHAR(128) NULL,
  country                   VARCHAR(128) NULL,
  arrival_date              DATETIME     NOT NULL,
  departure_date            DATETIME     NOT NULL,
  no_of_nights              INT          NULL,
  hotel_category            VARCHAR(255) NULL,
  room_type                 JSON         NULL,
  basis                     VARCHAR(16)  NULL,
  no_of_pax                 INT          NULL,
  children                  VARCHAR(32)  NULL,
  tour_type                 VARCHAR(64)  NULL,
  transport                 VARCHAR(64)  NULL,
  site_interests            JSON         NULL,
  other_service             JSON         NULL,
  special_arrangements      VARCHAR(64)  NULL,
  special_arrangements_date DATETIME     NULL,
  arrival_flight            VARCHAR(64)  NULL,
  departure_flight          VARCHAR(64)  NULL,
  created_at                DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
  KEY idx_client_inquiry_email (email_address)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var schemaSQLite = []string{`
CREATE TABLE IF NOT EXISTS client_inquiry (
  id                        INTEGER PRIMARY KEY AUTOINCREMENT,
  full_name                 TEXT     NOT NULL,
  email_address             TEXT     NOT NULL,
  contact_number            TEXT     NOT NULL,
  nationality               TEXT,
  country                   TEXT,
  arrival_date              DATETIME NOT NULL,
  departure_date            DATETIME NOT NULL,
  no_of_nights              INTEGER,
  hotel_category            TEXT,
  room_type                 TEXT,
  basis                     TEXT,
  no_of_pax                 INTEGER,
  children                  TEXT,
  tour_type                 TEXT,
  transport                 TEXT,
  site_interests            TEXT,
  other_service             TEXT,
  special_arrangements      TEXT,
  special_arrangements_date DATETIME,
  arrival_flight            TEXT,
  departure_flight          TEXT,
  created_at                DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_client_inquiry_email ON client_inquiry (email_address)`,
}
