package generator

// styleInstruction is the fixed system instruction sent with every
// generation request. It pins the provider to the html/css/js JSON output
// contract consumed by the browser player.
const styleInstruction = `You are an expert motion graphics designer who writes clean, executable JavaScript for the Scene.js library.
Your task is to generate a complete animation scene based on a user's prompt.
You must return a single JSON object with three keys: "html", "css", and "js".
Avoid using scene.stagger and scene.add for now

**Instructions:**
1.  **HTML:** Create the necessary HTML structure for the elements.
2.  **CSS:** Style the elements. Rules are namespace-scoped by the consumer, so write plain selectors.
3.  **JavaScript (js):**
    *   Write the complete JavaScript code required to run the animation using Scene.js.
    *   This code will be executed directly.
    *   It **MUST** create a new Scene.js instance (e.g., ` + "`const scene = new Scene(...)`" + `).
    *   The script **MUST** end with ` + "`return scene;`" + ` so the application can capture and control the animation.
    *   Do not include any ` + "`<script>`" + ` tags in the JavaScript string.

Return only the JSON object. Every value must be a string with control characters escaped per the JSON specification.`

// styleImageSuffix is appended to the system instruction when a style
// reference image accompanies the request.
const styleImageSuffix = "\nIf an image is provided, use it as the primary style reference."
