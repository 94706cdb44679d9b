package headers

import (
	"fmt"
	"strings"
)

// keyValParse parses a comma- or semicolon-separated list of key=value
// entries, in which values can be wrapped in double quotes.
func keyValParse(str string, separator byte) (map[string]string, error) {
	ret := make(map[string]string)
	origstr := str

	for len(str) > 0 {
		eq := strings.IndexByte(str, '=')
		if eq < 0 || strings.IndexByte(str[:eq], separator) >= 0 {
			return nil, fmt.Errorf("unable to read key (%v)", origstr)
		}
		k := str[:eq]
		str = str[eq+1:]

		var v string
		if len(str) > 0 && str[0] == '"' {
			end := strings.IndexByte(str[1:], '"')
			if end < 0 {
				return nil, fmt.Errorf("apexes not closed (%v)", origstr)
			}
			v = str[1 : 1+end]
			str = str[2+end:]
		} else {
			end := strings.IndexByte(str, separator)
			if end < 0 {
				end = len(str)
			}
			v = str[:end]
			str = str[end:]
		}

		ret[k] = v

		// skip separator
		if len(str) > 0 && str[0] == separator {
			str = str[1:]
		}

		// skip spaces
		for len(str) > 0 && str[0] == ' ' {
			str = str[1:]
		}
	}

	return ret, nil
}
