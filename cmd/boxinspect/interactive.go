package main

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/anybox/box"
	"github.com/wippyai/anybox/meta"
)

type modelState int

const (
	stateSelectType modelState = iota
	stateSelectMethod
	stateInputArgs
	stateShowResult
)

type browserModel struct {
	err       error
	reg       *meta.Registry
	types     []*meta.Type
	objects   map[string]*box.Box
	result    string
	inputs    []textinput.Model
	typeIdx   int
	methodIdx int
	focusIdx  int
	state     modelState
}

type callResultMsg struct {
	err    error
	result string
}

func newBrowserModel(reg *meta.Registry) *browserModel {
	m := &browserModel{
		reg:     reg,
		objects: make(map[string]*box.Box),
		state:   stateSelectType,
	}
	for _, name := range reg.Names() {
		if t, err := reg.Lookup(name); err == nil {
			m.types = append(m.types, t)
		}
	}
	return m
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) current() *meta.Type {
	return m.types[m.typeIdx]
}

func (m *browserModel) method() *meta.Method {
	return m.current().Methods[m.methodIdx]
}

// object returns the instance of the selected type, created on first use.
func (m *browserModel) object() *box.Box {
	t := m.current()
	obj, ok := m.objects[t.Name]
	if !ok {
		obj = t.New()
		m.objects[t.Name] = obj
	}
	return obj
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputArgs {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectType && m.typeIdx > 0 {
				m.typeIdx--
			}
			if m.state == stateSelectMethod && m.methodIdx > 0 {
				m.methodIdx--
			}

		case "down", "j":
			if m.state == stateSelectType && m.typeIdx < len(m.types)-1 {
				m.typeIdx++
			}
			if m.state == stateSelectMethod && m.methodIdx < len(m.current().Methods)-1 {
				m.methodIdx++
			}

		case "enter":
			switch m.state {
			case stateSelectType:
				if len(m.types) > 0 && len(m.current().Methods) > 0 {
					m.methodIdx = 0
					m.state = stateSelectMethod
				}

			case stateSelectMethod:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callMethod
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callMethod

			case stateShowResult:
				m.state = stateSelectMethod
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateSelectMethod:
				m.state = stateSelectType
			case stateInputArgs:
				m.state = stateSelectMethod
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectMethod
				m.result = ""
				m.err = nil
			}
		}

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *browserModel) prepareInputs() {
	mt := m.method()
	m.inputs = make([]textinput.Model, len(mt.In))
	for i, t := range mt.In {
		ti := textinput.New()
		ti.Placeholder = t.String()
		ti.Prompt = fmt.Sprintf("arg%d: ", i)
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *browserModel) callMethod() tea.Msg {
	mt := m.method()

	args := make([]*box.Box, len(m.inputs))
	for i, input := range m.inputs {
		b, err := parseArg(input.Value(), mt.In[i])
		if err != nil {
			return callResultMsg{err: fmt.Errorf("arg%d: %w", i, err)}
		}
		args[i] = b
	}

	res, err := mt.Call(m.object(), args...)
	if err != nil {
		return callResultMsg{err: err}
	}
	if res.Empty() {
		return callResultMsg{result: "(no result)"}
	}
	return callResultMsg{result: res.String()}
}

// parseArg decodes text as YAML into a value of type t.
func parseArg(text string, t reflect.Type) (*box.Box, error) {
	v := reflect.New(t)
	if strings.TrimSpace(text) != "" {
		if err := yaml.Unmarshal([]byte(text), v.Interface()); err != nil {
			return nil, err
		}
	}
	b := new(box.Box)
	box.SetValue(b, v.Elem())
	return b, nil
}

func (m *browserModel) objectState() string {
	obj := m.object()
	v, err := box.GetValue(obj, reflect.PointerTo(m.current().Go))
	if err != nil {
		return obj.String()
	}
	return fmt.Sprintf("%+v", v.Elem().Interface())
}

func (m *browserModel) View() string {
	if len(m.types) == 0 {
		return errorStyle.Render("No registered types.\n\nPress q to quit.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Box Inspector"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectType:
		b.WriteString("Select a type:\n\n")
		for i, t := range m.types {
			line := fmt.Sprintf("%s (%d fields, %d methods)", t.Name, len(t.Fields), len(t.Methods))
			if i == m.typeIdx {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter methods • q quit"))

	case stateSelectMethod:
		t := m.current()
		b.WriteString(fmt.Sprintf("%s %s\n\n", funcStyle.Render(t.Name), typeStyle.Render(m.objectState())))
		for i, mt := range t.Methods {
			if i == m.methodIdx {
				b.WriteString(selectedStyle.Render("> " + mt.Signature()))
			} else {
				b.WriteString("  " + funcStyle.Render(mt.Signature()))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • esc back • q quit"))

	case stateInputArgs:
		mt := m.method()
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(mt.Signature())))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(mt.In[i].String()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("values are YAML • tab next field • enter call • esc back"))

	case stateShowResult:
		mt := m.method()
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(mt.Name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString("object: " + typeStyle.Render(m.objectState()))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive() error {
	p := tea.NewProgram(newBrowserModel(meta.Default()), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
