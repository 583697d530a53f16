package parquet2bcf

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"
)

// Time is stored in the index as unix seconds but read back from whatever
// representation the SQLite driver hands over. Derived from
// https://github.com/mattn/go-sqlite3/issues/190#issuecomment-343341834f
type Time time.Time

func (t *Time) Scan(v interface{}) error {
	switch which := v.(type) {
	case int64:
		*t = Time(time.Unix(which, 0))
		return nil
	case time.Time:
		*t = Time(which)
		return nil
	case string:
		return t.Scan([]byte(which))
	case []byte:
		if secs, err := strconv.ParseInt(string(which), 10, 64); err == nil {
			*t = Time(time.Unix(secs, 0))
			return nil
		}
		vt, err := time.Parse("2006-01-02 15:04:05", string(which))
		if err != nil {
			return err
		}
		*t = Time(vt)
		return nil
	}

	return fmt.Errorf("No appropriate type could be found to decode %v", v)
}

func (t Time) Value() (driver.Value, error) {
	return time.Time(t).Unix(), nil
}
