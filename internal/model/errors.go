package model

import (
	"sort"
	"strings"
)

// ValidationError 字段级校验错误，key为字段名，value为错误信息
type ValidationError map[string]string

func (e ValidationError) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// Fields 返回字段到错误信息的映射，供handler层组装响应
func (e ValidationError) Fields() map[string]string {
	return map[string]string(e)
}
