package importer

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"sync"

	sqlite "modernc.org/sqlite"
)

var regexpCacheMu sync.Mutex
var regexpCache = map[string]*regexp.Regexp{}

// init registers a REGEXP function with the sqlite driver so sanitized
// scripts that reference REGEXP still parse and execute. Registration is
// process-wide and applies to every connection the driver opens.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("regexp", 2,
		func(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			pattern, ok := args[0].(string)
			if !ok {
				return nil, fmt.Errorf("regexp: pattern is not text: %v", args[0])
			}
			var subject string
			switch v := args[1].(type) {
			case string:
				subject = v
			case nil:
				return int64(0), nil
			default:
				subject = fmt.Sprint(v)
			}
			re, err := compileCached(pattern)
			if err != nil {
				return nil, err
			}
			if re.MatchString(subject) {
				return int64(1), nil
			}
			return int64(0), nil
		})
}

func compileCached(pattern string) (*regexp.Regexp, error) {
	regexpCacheMu.Lock()
	defer regexpCacheMu.Unlock()
	if re, ok := regexpCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	regexpCache[pattern] = re
	return re, nil
}
