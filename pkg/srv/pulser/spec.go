/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package pulser

// apiSpecJSON is the swagger document served at /swagger.json and rendered
// at /docs.
const apiSpecJSON = `{
  "swagger": "2.0",
  "info": {
    "title": "go-pulser API",
    "version": "1.0.0"
  },
  "basePath": "/api",
  "consumes": ["application/json"],
  "produces": ["application/json"],
  "paths": {
    "/status/{device}": {
      "get": {
        "summary": "read device state, outputs and tick count",
        "parameters": [{"name": "device", "in": "path", "required": true, "type": "string"}],
        "responses": {
          "200": {"description": "device status"},
          "404": {"description": "device not found"}
        }
      }
    },
    "/word/{device}": {
      "get": {
        "summary": "read the latched configuration word",
        "parameters": [{"name": "device", "in": "path", "required": true, "type": "string"}],
        "responses": {
          "200": {"description": "latched word and its timing fields"},
          "404": {"description": "device not found"}
        }
      }
    },
    "/word/{device}/history": {
      "get": {
        "summary": "read all configuration words the device has accepted",
        "parameters": [{"name": "device", "in": "path", "required": true, "type": "string"}],
        "responses": {
          "200": {"description": "accepted words, oldest first"},
          "404": {"description": "device not found"}
        }
      }
    },
    "/control/{action}/{device}": {
      "get": {
        "summary": "drive the enable or reset line of a device",
        "parameters": [
          {"name": "action", "in": "path", "required": true, "type": "string", "enum": ["enable", "disable", "reset"]},
          {"name": "device", "in": "path", "required": true, "type": "string"}
        ],
        "responses": {
          "200": {"description": "line driven"},
          "400": {"description": "unknown action"},
          "404": {"description": "device not found"}
        }
      }
    },
    "/trace/{device}": {
      "get": {
        "summary": "read recent output waveform samples",
        "parameters": [
          {"name": "device", "in": "path", "required": true, "type": "string"},
          {"name": "n", "in": "query", "required": false, "type": "integer"}
        ],
        "responses": {
          "200": {"description": "output samples, oldest first"},
          "404": {"description": "device not found"}
        }
      }
    }
  }
}`
