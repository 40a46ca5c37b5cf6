package utils

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strings"
)

// base64 payloads shorter than this are left alone
const base64TruncateThreshold = 100

var (
	dataURLRegex    = regexp.MustCompile(`(?i)(data:[^;]+;base64,)([A-Za-z0-9+/]{100,}={0,2})`)
	quotedB64Regex  = regexp.MustCompile(`"([A-Za-z0-9+/]{100,}={0,2})"`)
	bareBase64Regex = regexp.MustCompile(`^[A-Za-z0-9+/\r\n]{100,}={0,2}$`)
	apiKeyParam     = regexp.MustCompile(`([?&]key=)[^&\s"]+`)
)

// sensitiveHeaders are replaced wholesale when headers are logged
var sensitiveHeaders = map[string]bool{
	"authorization":  true,
	"cookie":         true,
	"set-cookie":     true,
	"x-goog-api-key": true,
	"x-api-key":      true,
}

// MaskAPIKey hides the value of a `key` query parameter in URLs and error text
func MaskAPIKey(s string) string {
	return apiKeyParam.ReplaceAllString(s, "${1}***MASKED***")
}

// MaskURL returns the URL as a string with its `key` query parameter masked
func MaskURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	return MaskAPIKey(u.String())
}

// SanitizeHeaders flattens headers for logging and masks credentials
func SanitizeHeaders(headers http.Header) map[string]string {
	sanitized := make(map[string]string, len(headers))
	for key, values := range headers {
		if len(values) == 0 {
			continue
		}
		if sensitiveHeaders[strings.ToLower(key)] {
			sanitized[key] = "***MASKED***"
			continue
		}
		sanitized[key] = strings.Join(values, ", ")
	}
	return sanitized
}

// TruncateBase64InData truncates base64 strings (bare, quoted or in data URLs) for logging
func TruncateBase64InData(data interface{}) interface{} {
	v := truncateBase64Value(reflect.ValueOf(data))
	if !v.IsValid() {
		return data
	}
	return v.Interface()
}

func truncateBase64Value(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.String:
		return reflect.ValueOf(truncateBase64String(v.String())).Convert(v.Type())

	case reflect.Map:
		if v.IsNil() {
			return v
		}
		newMap := reflect.MakeMap(v.Type())
		for _, key := range v.MapKeys() {
			value := truncateBase64Value(v.MapIndex(key))
			if !value.IsValid() {
				value = reflect.Zero(v.Type().Elem())
			}
			newMap.SetMapIndex(key, value)
		}
		return newMap

	case reflect.Slice:
		if v.IsNil() || v.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		newSlice := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			value := truncateBase64Value(v.Index(i))
			if value.IsValid() {
				newSlice.Index(i).Set(value)
			}
		}
		return newSlice

	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		inner := truncateBase64Value(v.Elem())
		out := reflect.New(v.Type()).Elem()
		out.Set(inner)
		return out

	case reflect.Ptr:
		if v.IsNil() {
			return v
		}
		elem := truncateBase64Value(v.Elem())
		newPtr := reflect.New(v.Type().Elem())
		newPtr.Elem().Set(elem)
		return newPtr

	case reflect.Struct:
		newStruct := reflect.New(v.Type()).Elem()
		newStruct.Set(v)
		for i := 0; i < v.NumField(); i++ {
			field := newStruct.Field(i)
			if !field.CanSet() {
				continue
			}
			value := truncateBase64Value(v.Field(i))
			if value.IsValid() && value.Type().AssignableTo(field.Type()) {
				field.Set(value)
			}
		}
		return newStruct

	default:
		return v
	}
}

func truncateBase64String(s string) string {
	if len(s) <= base64TruncateThreshold {
		return s
	}

	if bareBase64Regex.MatchString(s) {
		return truncatePayload(s)
	}

	s = dataURLRegex.ReplaceAllStringFunc(s, func(match string) string {
		sub := dataURLRegex.FindStringSubmatch(match)
		if len(sub) != 3 {
			return match
		}
		return sub[1] + truncatePayload(sub[2])
	})

	return quotedB64Regex.ReplaceAllStringFunc(s, func(match string) string {
		return `"` + truncatePayload(match[1:len(match)-1]) + `"`
	})
}

func truncatePayload(payload string) string {
	if len(payload) <= base64TruncateThreshold {
		return payload
	}
	return payload[:50] + "...[" + fmt.Sprintf("%d chars truncated", len(payload)-base64TruncateThreshold) + "]..." + payload[len(payload)-50:]
}
