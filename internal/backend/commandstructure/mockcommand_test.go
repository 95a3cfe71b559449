package commandstructure

// mockCommand is a test double for the Command interface
type mockCommand struct {
	name        string
	executeFunc func(Image) (Image, error)
}

func (m *mockCommand) Name() string {
	return m.name
}

func (m *mockCommand) Execute(image Image) (Image, error) {
	if m.executeFunc != nil {
		return m.executeFunc(image)
	}
	return image, nil
}

// newMockCommand creates a pass-through mock command
func newMockCommand(name string) *mockCommand {
	return &mockCommand{name: name}
}

// newAppendingMockCommand appends suffix to the data and reports contentType as the output type
func newAppendingMockCommand(name, suffix, contentType string) *mockCommand {
	return &mockCommand{
		name: name,
		executeFunc: func(image Image) (Image, error) {
			data := append(append([]byte{}, image.Data...), suffix...)
			return Image{Data: data, ContentType: contentType}, nil
		},
	}
}

func newMockCommandWithError(name string, err error) *mockCommand {
	return &mockCommand{
		name: name,
		executeFunc: func(Image) (Image, error) {
			return Image{}, err
		},
	}
}
