package vm

import "sync"

var machinePool = sync.Pool{
	New: func() any { return &Machine{} },
}

// GetMachine returns a reset Machine from the pool.
func GetMachine() *Machine {
	return machinePool.Get().(*Machine)
}

// PutMachine resets m and returns it to the pool.
func PutMachine(m *Machine) {
	m.Reset()
	machinePool.Put(m)
}

// Exec runs bc on a pooled machine and returns its result.
func Exec(bc *Bytecode, gasLimit int) (float64, error) {
	m := GetMachine()
	defer PutMachine(m)

	m.Load(bc)
	if err := m.Run(gasLimit); err != nil {
		return 0, err
	}
	return m.Result()
}
