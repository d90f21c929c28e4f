package loader

// mergeMaps merges src onto dest in place
func mergeMaps(dest, src map[string]interface{}) {
	for key, srcVal := range src {
		destVal, destOk := dest[key]
		if !destOk {
			dest[key] = normalize(srcVal)
			continue
		}

		// Merge maps
		if srcMap, srcOk := srcVal.(map[string]interface{}); srcOk {
			if destMap, destOk := destVal.(map[string]interface{}); destOk {
				mergeMaps(destMap, srcMap)
				continue
			}
		}

		// Lists append, with "" resetting
		if isSlice(destVal) {
			dest[key] = applyList(toInterfaceSlice(destVal), srcVal)
			continue
		}
		if isSlice(srcVal) {
			dest[key] = applyList(nil, srcVal)
			continue
		}

		// Otherwise, overwrite
		dest[key] = srcVal
	}
}

// normalize applies the list reset rule to a value entering the tree
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		mergeMaps(out, t)
		return out
	case []interface{}, []string:
		return applyList(nil, t)
	default:
		return v
	}
}

func applyList(dest []interface{}, src interface{}) []interface{} {
	items := []interface{}{src}
	if isSlice(src) {
		items = toInterfaceSlice(src)
	}

	out := make([]interface{}, len(dest), len(dest)+len(items))
	copy(out, dest)
	for _, item := range items {
		if s, ok := item.(string); ok && s == "" {
			out = out[:0]
			continue
		}
		out = append(out, item)
	}
	return out
}

func isSlice(v interface{}) bool {
	switch v.(type) {
	case []interface{}, []string:
		return true
	default:
		return false
	}
}

func toInterfaceSlice(v interface{}) []interface{} {
	switch s := v.(type) {
	case []interface{}:
		return s
	case []string:
		result := make([]interface{}, len(s))
		for i, v := range s {
			result[i] = v
		}
		return result
	default:
		return []interface{}{}
	}
}
