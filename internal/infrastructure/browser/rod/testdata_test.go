package rod

// HTML fixtures served by httptest in the adapter tests.
const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	SearchHTML = `<!DOCTYPE html>
<html>
<body>
	<input id="hidden" name="q" type="search" style="display:none" />
	<input id="box" name="search" type="search" value="old text" />
	<div id="submitted"></div>
	<script>
		document.getElementById('box').addEventListener('keydown', function(e) {
			if (e.key === 'Enter') {
				document.getElementById('submitted').textContent = this.value;
			}
		});
	</script>
</body>
</html>`

	ResultsHTML = `<!DOCTYPE html>
<html>
<body style="height: 4000px;">
	<div id="search" style="margin-top: 3000px;">
		<a href="#clicked"><h3>First result</h3></a>
	</div>
	<div id="result"></div>
	<script>
		document.querySelector('#search a').addEventListener('click', function() {
			document.getElementById('result').textContent = 'Clicked!';
		});
	</script>
</body>
</html>`

	DelayedHTML = `<!DOCTYPE html>
<html>
<body>
	<script>
		setTimeout(function() {
			var d = document.createElement('div');
			d.id = 'late';
			document.body.appendChild(d);
		}, 300);
	</script>
</body>
</html>`

	WebdriverHTML = `<!DOCTYPE html>
<html>
<body>
	<div id="flag"></div>
	<script>
		document.getElementById('flag').textContent = String(navigator.webdriver);
	</script>
</body>
</html>`
)
