package transport

import (
	"net/url"
	"strconv"
)

// Params are the request parameters of one GMP command.
// Use NewParams, the zero value is not usable.
type Params struct {
	values url.Values
}

// NewParams starts a parameter set for cmd.
func NewParams(cmd string) Params {
	v := url.Values{}
	v.Set("cmd", cmd)
	return Params{values: v}
}

// Command returns the cmd parameter.
func (p Params) Command() string { return p.values.Get("cmd") }

// Get returns the first value of key.
func (p Params) Get(key string) string { return p.values.Get(key) }

// Has reports whether key is set.
func (p Params) Has(key string) bool { return p.values.Has(key) }

// Set stores value under key, replacing previous values.
func (p Params) Set(key, value string) Params {
	p.values.Set(key, value)
	return p
}

// SetIf stores value only if it is not empty.
func (p Params) SetIf(key, value string) Params {
	if value != "" {
		p.values.Set(key, value)
	}
	return p
}

// SetInt stores an integer.
func (p Params) SetInt(key string, value int) Params {
	return p.Set(key, strconv.Itoa(value))
}

// SetBool stores a GMP flag as 1 or 0.
func (p Params) SetBool(key string, value bool) Params {
	if value {
		return p.Set(key, "1")
	}
	return p.Set(key, "0")
}

// SetFilter stores the filter string.
func (p Params) SetFilter(filter string) Params {
	return p.SetIf("filter", filter)
}

// SetIDs selects entities for bulk commands as bulk_selected:<id>=1.
func (p Params) SetIDs(ids []string) Params {
	for _, id := range ids {
		p.values.Set("bulk_selected:"+id, "1")
	}
	return p
}

// SetList stores values as the gsad array parameter key:.
func (p Params) SetList(key string, values []string) Params {
	k := key + ":"
	p.values.Del(k)
	for _, v := range values {
		p.values.Add(k, v)
	}
	return p
}

// Values returns a copy of the parameters.
func (p Params) Values() url.Values {
	out := make(url.Values, len(p.values))
	for k, v := range p.values {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Encode returns the URL encoded parameters.
func (p Params) Encode() string { return p.values.Encode() }
