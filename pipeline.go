package libtrace

import (
	"fmt"
	"os"
)

// Run executes the full pipeline against the archive at inputPath, writing
// Signatures.json under outputDir. It returns the path written and the
// number of functions signed, or an error if the input can't be opened or
// isn't a recognizable archive.
func Run(inputPath, outputDir string, log Logger) (outputPath string, functionsProcessed uint64, err error) {
	buf, err := os.ReadFile(inputPath)
	if err != nil {
		return "", 0, fmt.Errorf("libtrace: opening %s: %w", inputPath, err)
	}

	log.Log("walking archive %s (%d bytes)", inputPath, len(buf))
	members, err := WalkArchive(buf, log)
	if err != nil {
		return "", 0, err
	}
	log.Log("found %d candidate object(s)", len(members))

	sched := NewScheduler()
	counter := &atomicFunctionCounter{}

	handles := make([]Handle, 0, len(members))
	for _, m := range members {
		m := m
		h, err := sched.Submit(func() objectResult {
			sigs, processed := AnalyzeObject(m.Data, m.Machine, log)
			counter.add(processed)
			return objectResult{signatures: sigs, processed: processed}
		})
		if err != nil {
			log.Log("scheduler: %v, skipping remaining submissions", err)
			break
		}
		handles = append(handles, h)
	}

	agg := NewAggregator()
	for _, h := range handles {
		res := h.Wait()
		agg.Merge(res.signatures)
	}

	sched.Close()

	outputPath, err = agg.WriteJSON(outputDir)
	if err != nil {
		return "", 0, err
	}

	log.Log("signed %d function(s), wrote %s", counter.total(), outputPath)
	return outputPath, counter.total(), nil
}
