package libtrace

import "testing"

func TestScheduler_SubmitAndWait(t *testing.T) {
	s := NewScheduler()
	defer s.Close()

	h, err := s.Submit(func() objectResult {
		return objectResult{signatures: map[string]string{"x": "90"}, processed: 1}
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	res := h.Wait()
	if res.processed != 1 {
		t.Errorf("processed = %d, want 1", res.processed)
	}
	if res.signatures["x"] != "90" {
		t.Errorf(`signatures["x"] = %q, want "90"`, res.signatures["x"])
	}
}

func TestScheduler_SubmitAfterCloseFails(t *testing.T) {
	s := NewScheduler()
	s.Close()

	_, err := s.Submit(func() objectResult { return objectResult{} })
	if err != ErrSchedulerClosed {
		t.Fatalf("err = %v, want ErrSchedulerClosed", err)
	}
}

func TestScheduler_ManySubmissions(t *testing.T) {
	s := NewScheduler()
	defer s.Close()

	const n = 50
	handles := make([]Handle, 0, n)
	for i := 0; i < n; i++ {
		i := i
		h, err := s.Submit(func() objectResult {
			return objectResult{processed: i}
		})
		if err != nil {
			t.Fatalf("Submit(%d) error = %v", i, err)
		}
		handles = append(handles, h)
	}

	total := 0
	for _, h := range handles {
		total += h.Wait().processed
	}
	if want := n * (n - 1) / 2; total != want {
		t.Errorf("total processed = %d, want %d", total, want)
	}
}
