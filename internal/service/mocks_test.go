package service

import (
	"context"
	"io"
	"strings"
	"sync"
)

func bytesReader(s string) io.Reader { return strings.NewReader(s) }

// mockUploader implements media.Uploader
type mockUploader struct {
	mu         sync.Mutex
	MockUpload func(ctx context.Context, file io.Reader, fileName, folder string, width int) (string, error)
	calls      []uploadCall
}

type uploadCall struct {
	FileName string
	Folder   string
	Width    int
}

func (m *mockUploader) Upload(ctx context.Context, file io.Reader, fileName, folder string, width int) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, uploadCall{fileName, folder, width})
	m.mu.Unlock()
	if m.MockUpload != nil {
		return m.MockUpload(ctx, file, fileName, folder, width)
	}
	return "https://cdn.test/" + folder + "/" + fileName, nil
}

func (m *mockUploader) Calls() []uploadCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uploadCall(nil), m.calls...)
}

// mockSender implements email.Sender
type mockSender struct {
	mu       sync.Mutex
	MockSend func(to, subject, body string) error
	sent     []sentEmail
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

func (m *mockSender) Send(to, subject, body string) error {
	if m.MockSend != nil {
		if err := m.MockSend(to, subject, body); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.sent = append(m.sent, sentEmail{to, subject, body})
	m.mu.Unlock()
	return nil
}

func (m *mockSender) Sent() []sentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentEmail(nil), m.sent...)
}
