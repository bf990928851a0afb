package bastion

import (
	"encoding/json"

	"github.com/iov-one/bastion/errors"
)

// Options are the genesis options. Each extension can look up its key and
// parse the raw json as desired.
type Options map[string]json.RawMessage

// ReadOptions reads the value stored under a given key and parses the json
// into the given obj. Noop and no error if the key is missing.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "option %q: %s", key, err)
	}
	return nil
}

// Initializer implementations are used to initialize extensions from
// genesis file contents.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
