package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

// IsQuery reports whether the run selection is an SQL statement rather than
// a list of run numbers.
func IsQuery(selection string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(selection)), "SELECT")
}

// ParseRunList parses a comma separated list of run numbers.
func ParseRunList(selection string) ([]int, error) {
	runs := make([]int, 0)
	for _, field := range strings.Split(selection, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		run, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid run number %q: %w", field, err)
		}
		if run < 0 {
			return nil, fmt.Errorf("invalid run number %d: must not be negative", run)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// GetRunsFromDB executes the selection query. The run number is read from
// the first column, the rest of the columns are ignored.
func GetRunsFromDB(db *sqlx.DB, query string) ([]int, error) {
	logger.Info(fmt.Sprintf("Query: %s", query), "database")

	rows, err := db.Queryx(query)
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	runs := make([]int, 0)
	for rows.Next() {
		columns, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("error scanning DB row: %w", err)
		}
		if len(columns) == 0 {
			return nil, fmt.Errorf("query returned no columns")
		}
		run, err := runNumberFromColumn(columns[0])
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading DB rows: %w", err)
	}
	return runs, nil
}

func runNumberFromColumn(value interface{}) (int, error) {
	switch v := value.(type) {
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case uint64:
		return int(v), nil
	case []byte:
		return strconv.Atoi(string(v))
	case string:
		return strconv.Atoi(v)
	default:
		return 0, fmt.Errorf("unexpected run number type %T", value)
	}
}
