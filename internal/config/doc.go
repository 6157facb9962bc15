// SPDX-License-Identifier: EPL-2.0

// Package config loads the YAML configuration of the audrev CLI.
//
// Example file (every key is optional):
//
//	audio:
//	  sample_rate: 44100
//	  channels: 1
//	  bits_per_sample: 16
//	  frames_per_buffer: 1024
//	storage:
//	  dir: /var/tmp/audrev
//	  pcm_file: recorded.pcm
//	  wav_file: recorded.wav
//	capture:
//	  max_consecutive_errors: 32
//	playback:
//	  max_concurrent: 1
//	logging:
//	  level: info
//	  format: text
//	  output: stderr
//	metrics:
//	  address: 127.0.0.1:9464
package config
