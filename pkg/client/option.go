package client

type optionData struct {
	nonConfirmable bool
}

type IOption func(data interface{})

// WithNonConfirmable marks the request fire-and-forget at the message
// layer. The device still answers; the flag only changes the message
// type it echoes back.
func WithNonConfirmable() IOption {
	return func(i interface{}) {
		if data, ok := i.(*optionData); ok {
			data.nonConfirmable = true
		}
	}
}

func newOptionData(opts ...IOption) *optionData {
	data := &optionData{}
	for _, op := range opts {
		op(data)
	}
	return data
}
