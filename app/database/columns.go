package database

import (
	"reflect"
	"strings"
	"sync"
)

type column struct {
	name  string
	index []int
}

var columnCache sync.Map // reflect.Type -> []column

// columnsOf lists the db-tagged fields of a struct type, flattening embedded structs.
func columnsOf(t reflect.Type) []column {
	if cached, ok := columnCache.Load(t); ok {
		return cached.([]column)
	}
	cols := walkColumns(t, nil)
	columnCache.Store(t, cols)
	return cols
}

func walkColumns(t reflect.Type, prefix []int) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		index := append(append([]int{}, prefix...), i)
		tag := f.Tag.Get("db")
		if f.Anonymous && tag == "" && f.Type.Kind() == reflect.Struct {
			cols = append(cols, walkColumns(f.Type, index)...)
			continue
		}
		if tag == "" || tag == "-" || !f.IsExported() {
			continue
		}
		cols = append(cols, column{name: strings.SplitN(tag, ",", 2)[0], index: index})
	}
	return cols
}

func columnNames(cols []column, skip ...string) []string {
	names := make([]string, 0, len(cols))
outer:
	for _, c := range cols {
		for _, s := range skip {
			if c.name == s {
				continue outer
			}
		}
		names = append(names, c.name)
	}
	return names
}
