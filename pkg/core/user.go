package core

// User is the record persisted by the store.
// The entry key it is stored under is its identity; the value itself carries none.
type User struct {
	Name string `json:"name" yaml:"name"`
	Age  uint16 `json:"age" yaml:"age"`
}
