// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the condenser document and builds the engine from it.
//
//	            +-------------+
//	            |   Config    |
//	            | (Document)  |
//	            +------+------+
//	                   |
//	     +-------------+-------------+
//	     |             |             |
//	+----+----+   +----+----+   +----+----+
//	|  YAML   |   |  JSON   |   |   HCL   |
//	| Parser  |   | Parser  |   | Parser  |
//	+---------+   +---------+   +---------+
//
// 🎯 Purpose:
// - Parses the document in the format its extension names
// - Validates it and fills in defaults
// - Builds input directories and transformer instances for the engine
//
// 🔄 Flow:
// 1. LoadConfig reads the file and picks a parser from the registry
// 2. Validate checks required fields and resolves relative paths against
//    the document's directory
// 3. Build compiles filters and transformers into a Plan
//
// 📄 Document:
//
//	output_dir: out
//	jobs: 4
//	input_dirs:
//	  - priority: 100
//	    path: music
//	    filters:
//	      - regex: "^drafts/"
//	        action: reject
//	      - glob: "**/*.flac"
//	transformers:
//	  - name: opus
//	    priority: 10
//	    overwrite: if_newer
//	    kind: command
//	    accept_unmatched: true
//	    command:
//	      output_ext: ogg
//	      transform:
//	        program: ffmpeg
//	        args: ["-i", "!INPUTPATH!", "!OUTPUTPATH!"]
//	  - name: copy
//	    kind: copy
//	    accept_unmatched: true
//
// In HCL, input directories are repeated input_dir blocks and transformers
// are labeled transformer blocks:
//
//	transformer "opus" {
//	  kind = "command"
//	  command {
//	    output_ext = "ogg"
//	    transform {
//	      program = "ffmpeg"
//	      args    = ["-i", "!INPUTPATH!", "!OUTPUTPATH!"]
//	    }
//	  }
//	}
package config
