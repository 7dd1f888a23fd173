package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"

	"travel_inquiry/internal/adapters/observability"
	"travel_inquiry/internal/domain"
)

func valStr(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.UTC()
}
func valJSON(list []string) any {
	if list == nil {
		return nil
	}
	b, _ := json.Marshal(list)
	return string(b)
}

// Repo stores client inquiries. It speaks the subset of SQL shared by MySQL
// and SQLite.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Insert(ctx context.Context, rec domain.InquiryRecord) (int64, error) {
	start := time.Now()
	status := http.StatusOK
	defer func() { observability.ObserveExternal("datastore", "insert_inquiry", status, time.Since(start)) }()

	res, err := r.db.ExecContext(ctx, insertInquirySQL,
		rec.FullName,
		rec.EmailAddress,
		rec.ContactNumber,
		valStr(rec.Nationality),
		valStr(rec.Country),
		valTime(rec.ArrivalDate),
		valTime(rec.DepartureDate),
		valInt(rec.NoOfNights),
		valStr(rec.HotelCategory),
		valStr(rec.RoomType),
		valStr(rec.Basis),
		valInt(rec.NoOfPax),
		valStr(rec.Children),
		valStr(rec.TourType),
		valStr(rec.Transport),
		valJSON(rec.SiteInterests),
		valJSON(rec.OtherService),
		valStr(rec.SpecialArrangements),
		valTime(rec.SpecialArrangementsDate),
		valStr(rec.ArrivalFlight),
		valStr(rec.DepartureFlight),
	)
	if err != nil {
		status = http.StatusInternalServerError
		return 0, persistenceError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		status = http.StatusInternalServerError
		return 0, fmt.Errorf("%w: %v", domain.ErrUnknownResponse, err)
	}
	return id, nil
}

// persistenceError keeps the driver's code and state so callers can report them.
func persistenceError(err error) error {
	pe := &domain.PersistenceError{Message: err.Error(), Err: err}
	var me *mysqldrv.MySQLError
	var se *sqlite.Error
	switch {
	case errors.As(err, &me):
		pe.Message = me.Message
		pe.Status = int(me.Number)
		pe.StatusText = strings.TrimRight(string(me.SQLState[:]), "\x00")
	case errors.As(err, &se):
		pe.Status = se.Code()
		pe.StatusText = sqlite.ErrorCodeString[se.Code()]
	}
	return pe
}

func (r *Repo) Get(ctx context.Context, id int64) (domain.InquiryRecord, error) {
	start := time.Now()
	status := http.StatusOK
	defer func() { observability.ObserveExternal("datastore", "get_inquiry", status, time.Since(start)) }()

	row := r.db.QueryRowContext(ctx, getInquirySQL, id)

	var rec domain.InquiryRecord
	var (
		nationality, country, hotelCat, roomType, basis sql.NullString
		children, tourType, transport, special          sql.NullString
		arrFlight, depFlight                            sql.NullString
		siteJSON, otherJSON                             sql.NullString
		nights, pax                                     sql.NullInt64
		arrival, departure, specialDate, createdAt      flexTime
	)
	if err := row.Scan(
		&rec.ID,
		&rec.FullName, &rec.EmailAddress, &rec.ContactNumber,
		&nationality, &country,
		&arrival, &departure,
		&nights,
		&hotelCat, &roomType, &basis,
		&pax,
		&children, &tourType, &transport,
		&siteJSON, &otherJSON,
		&special, &specialDate,
		&arrFlight, &depFlight,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			status = http.StatusNotFound
			return domain.InquiryRecord{}, fmt.Errorf("inquiry %d: %w", id, domain.ErrNotFound)
		}
		status = http.StatusInternalServerError
		return domain.InquiryRecord{}, err
	}

	rec.Nationality = nationality.String
	rec.Country = country.String
	rec.HotelCategory = hotelCat.String
	rec.RoomType = roomType.String
	if rec.RoomType == "" {
		rec.RoomType = "[]"
	}
	rec.Basis = basis.String
	rec.Children = children.String
	rec.TourType = tourType.String
	rec.Transport = transport.String
	rec.SpecialArrangements = special.String
	rec.ArrivalFlight = arrFlight.String
	rec.DepartureFlight = depFlight.String
	rec.ArrivalDate = arrival.ptr()
	rec.DepartureDate = departure.ptr()
	rec.SpecialArrangementsDate = specialDate.ptr()
	if createdAt.Valid {
		rec.CreatedAt = createdAt.Time
	}
	if nights.Valid {
		n := int(nights.Int64)
		rec.NoOfNights = &n
	}
	if pax.Valid {
		n := int(pax.Int64)
		rec.NoOfPax = &n
	}
	if siteJSON.Valid {
		_ = json.Unmarshal([]byte(siteJSON.String), &rec.SiteInterests)
	}
	if otherJSON.Valid {
		_ = json.Unmarshal([]byte(otherJSON.String), &rec.OtherService)
	}
	return rec, nil
}
