// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrohex/internal/config"
	"github.com/retroenv/retrohex/internal/format"
	"github.com/retroenv/retrohex/internal/format/intel"
	"github.com/retroenv/retrohex/internal/format/motorola"
	"github.com/retroenv/retrohex/internal/options"
)

// chunk size for reading the input file on the encode path
const readBufferSize = 4096

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, enc options.Encoding) error {
	writer, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if closer, ok := writer.(io.Closer); ok && writer != os.Stdout {
			_ = closer.Close()
		}
	}()

	file, err := os.Open(opts.Input)
	if err != nil {
		return fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	if opts.Decode {
		return decodeFile(logger, opts, file, writer)
	}
	return encodeFile(ctx, logger, enc, file, writer)
}

func encodeFile(ctx context.Context, logger *log.Logger, enc options.Encoding,
	reader io.Reader, writer io.Writer) error {

	encoder, err := config.CreateEncoder(enc)
	if err != nil {
		return fmt.Errorf("creating encoder: %w", err)
	}

	var bytesRead, recordsWritten int
	buf := make([]byte, readBufferSize)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, readErr := reader.Read(buf)
		if n > 0 {
			bytesRead += n
			records, err := encoder.Feed(buf[:n])
			if err != nil {
				return fmt.Errorf("encoding: %w", err)
			}
			if err := writeRecords(writer, records, &recordsWritten); err != nil {
				return err
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("reading input: %w", readErr)
		}
	}

	records, err := encoder.Finish()
	if err != nil {
		return fmt.Errorf("finishing encoding: %w", err)
	}
	if err := writeRecords(writer, records, &recordsWritten); err != nil {
		return err
	}

	logger.Info("Encoding finished",
		log.String("format", enc.Format),
		log.Int("bytes", bytesRead),
		log.Int("records", recordsWritten),
	)
	return nil
}

func writeRecords(writer io.Writer, records []string, counter *int) error {
	for _, record := range records {
		if _, err := io.WriteString(writer, record); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
		*counter++
	}
	return nil
}

func decodeFile(logger *log.Logger, opts options.Program, reader io.Reader, writer io.Writer) error {
	parse, err := config.CreateParser(opts.Format)
	if err != nil {
		return fmt.Errorf("creating parser: %w", err)
	}

	img := &image{}
	var line int
	scanner := bufio.NewScanner(reader)

	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if text == "" {
			continue
		}

		record, err := parse(text)
		if err != nil {
			return fmt.Errorf("parsing record in line %d: %w", line, err)
		}
		if err := interpretRecord(logger, opts.Format, record, img); err != nil {
			return fmt.Errorf("processing record in line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	data, base, err := img.render()
	if err != nil {
		return fmt.Errorf("assembling image: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("writing image: %w", err)
	}

	logger.Info("Decoding finished",
		log.String("format", opts.Format),
		log.String("base", fmt.Sprintf("0x%04X", base)),
		log.Int("bytes", len(data)),
	)
	if img.hasStart {
		logger.Info("Start address", log.String("address", fmt.Sprintf("0x%04X", img.start)))
	}
	return nil
}

// interpretRecord applies one decoded record to the image being assembled.
func interpretRecord(logger *log.Logger, formatName string, record format.Record, img *image) error {
	switch formatName {
	case format.Intel:
		return interpretIntel(record, img)
	case format.Motorola:
		interpretMotorola(logger, record, img)
	case format.Signetics:
		if len(record.Data) == 0 {
			img.setStart(record.Address)
		} else {
			img.add(record.Address, record.Data)
		}
	}
	return nil
}

// intel data record addresses are offsets into the segment selected by the
// last extended address record.
func interpretIntel(record format.Record, img *image) error {
	switch record.Type {
	case intel.TypeData:
		img.add(img.intelBase+record.Address, record.Data)

	case intel.TypeEndOfFile:

	case intel.TypeExtendedSegmentAddress:
		if len(record.Data) != 2 {
			return fmt.Errorf("%w: extended segment address payload of %d bytes",
				format.ErrLengthMismatch, len(record.Data))
		}
		img.intelBase = (uint32(record.Data[0])<<8 | uint32(record.Data[1])) << 4

	case intel.TypeStartSegmentAddress, intel.TypeStartLinearAddress:
		if len(record.Data) != 4 {
			return fmt.Errorf("%w: start address payload of %d bytes",
				format.ErrLengthMismatch, len(record.Data))
		}
		img.setStart(uint32(record.Data[0])<<24 | uint32(record.Data[1])<<16 |
			uint32(record.Data[2])<<8 | uint32(record.Data[3]))

	case intel.TypeExtendedLinearAddress:
		if len(record.Data) != 2 {
			return fmt.Errorf("%w: extended linear address payload of %d bytes",
				format.ErrLengthMismatch, len(record.Data))
		}
		img.intelBase = (uint32(record.Data[0])<<8 | uint32(record.Data[1])) << 16

	default:
		return fmt.Errorf("%w: %d", format.ErrUnsupportedType, record.Type)
	}
	return nil
}

func interpretMotorola(logger *log.Logger, record format.Record, img *image) {
	switch record.Type {
	case motorola.TypeHeader:
		logger.Debug("Header record", log.String("text", string(record.Data)))

	case motorola.TypeData16, motorola.TypeData24, motorola.TypeData32:
		img.add(record.Address, record.Data)
		img.dataRecords++

	case motorola.TypeCount16, motorola.TypeCount24:
		if uint64(record.Address) != img.dataRecords {
			logger.Warn("Record count mismatch",
				log.String("declared", fmt.Sprintf("%d", record.Address)),
				log.String("counted", fmt.Sprintf("%d", img.dataRecords)),
			)
		}

	case motorola.TypeStart16, motorola.TypeStart24, motorola.TypeStart32:
		img.setStart(record.Address)
	}
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("retrohex", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Output == "" {
		return os.Stdout, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}
